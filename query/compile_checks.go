package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-waste-market/core"
)

var (
	_ gocmd.Querier[GetActiveWasteMessage, core.WasteListing]         = (*GetActiveWasteQuery)(nil)
	_ gocmd.Querier[ListActiveByCategoryMessage, []core.WasteListing] = (*ListActiveByCategoryQuery)(nil)
	_ gocmd.Querier[ListActiveWastesMessage, []core.WasteListing]     = (*ListActiveWastesQuery)(nil)
	_ gocmd.Querier[ListInactiveWastesMessage, []core.WasteListing]   = (*ListInactiveWastesQuery)(nil)
	_ gocmd.Querier[GetPaymentMessage, core.Payment]                  = (*GetPaymentQuery)(nil)
)
