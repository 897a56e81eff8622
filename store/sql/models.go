package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type ownerRecord struct {
	bun.BaseModel `bun:"table:market_owners,alias:mo"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type userRecord struct {
	bun.BaseModel `bun:"table:market_users,alias:mu"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Role      string    `bun:"role,notnull"`
	Active    bool      `bun:"active,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type categoryRecord struct {
	bun.BaseModel `bun:"table:market_categories,alias:mc"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Active      bool      `bun:"active,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type wasteListingRecord struct {
	bun.BaseModel `bun:"table:market_waste_listings,alias:mwl"`

	ID          string    `bun:"id,pk"`
	CategoryID  string    `bun:"category_id,notnull"`
	Description string    `bun:"description,notnull"`
	Weight      int64     `bun:"weight,notnull"`
	Status      string    `bun:"status,notnull"`
	Author      string    `bun:"author,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type paymentRecord struct {
	bun.BaseModel `bun:"table:market_payments,alias:mp"`

	ID            string    `bun:"id,pk"`
	ListingID     string    `bun:"listing_id,notnull"`
	Payer         string    `bun:"payer,notnull"`
	Weight        int64     `bun:"weight,notnull"`
	Amount        int64     `bun:"amount,notnull"`
	Fee           int64     `bun:"fee,notnull"`
	Method        string    `bun:"method,notnull"`
	TransactionID string    `bun:"transaction_id,notnull"`
	PaidAt        time.Time `bun:"paid_at,nullzero,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
