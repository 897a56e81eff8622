package sqlstore

import "github.com/goliatone/go-waste-market/core"

var (
	_ core.OwnerStore             = (*OwnerStore)(nil)
	_ core.UserStore              = (*UserStore)(nil)
	_ core.CategoryStore          = (*CategoryStore)(nil)
	_ core.ListingStore           = (*ListingStore)(nil)
	_ core.PaymentStore           = (*PaymentStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
