package query

import (
	"context"

	"github.com/goliatone/go-waste-market/core"
)

type WasteReader interface {
	GetActiveWasteByID(ctx context.Context, listingID string) (core.WasteListing, error)
	GetActiveWastesByCategory(ctx context.Context, categoryID string) ([]core.WasteListing, error)
	GetActiveWastes(ctx context.Context) ([]core.WasteListing, error)
	GetInactiveWastes(ctx context.Context) ([]core.WasteListing, error)
}

type PaymentReader interface {
	GetPayment(ctx context.Context, paymentID string) (core.Payment, error)
}

type GetActiveWasteQuery struct {
	reader WasteReader
}

func NewGetActiveWasteQuery(reader WasteReader) *GetActiveWasteQuery {
	return &GetActiveWasteQuery{reader: reader}
}

func (q *GetActiveWasteQuery) Query(ctx context.Context, msg GetActiveWasteMessage) (core.WasteListing, error) {
	if q == nil || q.reader == nil {
		return core.WasteListing{}, queryDependencyError("query: waste reader is required")
	}
	return q.reader.GetActiveWasteByID(ctx, msg.ListingID)
}

type ListActiveByCategoryQuery struct {
	reader WasteReader
}

func NewListActiveByCategoryQuery(reader WasteReader) *ListActiveByCategoryQuery {
	return &ListActiveByCategoryQuery{reader: reader}
}

func (q *ListActiveByCategoryQuery) Query(
	ctx context.Context,
	msg ListActiveByCategoryMessage,
) ([]core.WasteListing, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: waste reader is required")
	}
	return q.reader.GetActiveWastesByCategory(ctx, msg.CategoryID)
}

type ListActiveWastesQuery struct {
	reader WasteReader
}

func NewListActiveWastesQuery(reader WasteReader) *ListActiveWastesQuery {
	return &ListActiveWastesQuery{reader: reader}
}

func (q *ListActiveWastesQuery) Query(ctx context.Context, _ ListActiveWastesMessage) ([]core.WasteListing, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: waste reader is required")
	}
	return q.reader.GetActiveWastes(ctx)
}

type ListInactiveWastesQuery struct {
	reader WasteReader
}

func NewListInactiveWastesQuery(reader WasteReader) *ListInactiveWastesQuery {
	return &ListInactiveWastesQuery{reader: reader}
}

func (q *ListInactiveWastesQuery) Query(ctx context.Context, _ ListInactiveWastesMessage) ([]core.WasteListing, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: waste reader is required")
	}
	return q.reader.GetInactiveWastes(ctx)
}

type GetPaymentQuery struct {
	reader PaymentReader
}

func NewGetPaymentQuery(reader PaymentReader) *GetPaymentQuery {
	return &GetPaymentQuery{reader: reader}
}

func (q *GetPaymentQuery) Query(ctx context.Context, msg GetPaymentMessage) (core.Payment, error) {
	if q == nil || q.reader == nil {
		return core.Payment{}, queryDependencyError("query: payment reader is required")
	}
	return q.reader.GetPayment(ctx, msg.PaymentID)
}
