package core

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	Caller     Identity
	ListingID  string
	Amount     int64
	Method     string
	StartBlock uint64
}

func (r InitiatePaymentRequest) Validate() error {
	if err := r.Caller.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ListingID) == "" {
		return fmt.Errorf("core: listing id is required")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("core: amount must be positive")
	}
	if strings.TrimSpace(r.Method) == "" {
		return fmt.Errorf("core: payment method is required")
	}
	return nil
}

// PaymentInstructions tell the buyer how to perform the out-of-band transfer:
// which address to pay, how much, and the memo that ties the transfer back to
// the pending order.
type PaymentInstructions struct {
	Order           PendingOrder
	ReceiverAddress string
	Amount          int64
	Memo            uint64
	Deadline        string
}

type ConfirmPaymentRequest struct {
	Memo       uint64
	StartBlock uint64
}

// InitiatePayment opens a pending order for a purchasable listing: it derives
// the memo, claims a slot in the pending-order table and arms the discard
// timeout. No payment record is written here.
func (s *Service) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (instructions PaymentInstructions, err error) {
	startedAt := s.now()
	defer s.recoverOperation("payment.initiate", &err)
	defer func() {
		s.observeOperation(ctx, startedAt, "payment.initiate", err, map[string]any{
			"caller":     req.Caller.String(),
			"listing_id": req.ListingID,
		})
	}()

	if err = req.Validate(); err != nil {
		return PaymentInstructions{}, s.mapError(err)
	}

	actor, err := s.resolveActor(ctx, req.Caller)
	if err != nil {
		return PaymentInstructions{}, s.mapError(err)
	}
	if actor.Role != RoleReceiver {
		return PaymentInstructions{}, s.mapError(goerrors.New(
			fmt.Sprintf("core: identity %q has no account eligible to purchase", req.Caller),
			goerrors.CategoryAuth,
		).WithTextCode(MarketErrorUnauthorized))
	}

	if s.listingStore == nil || s.pendingOrders == nil || s.timeoutScheduler == nil {
		return PaymentInstructions{}, s.mapError(fmt.Errorf("core: payment processing is not configured"))
	}

	listing, err := s.listingStore.Get(ctx, strings.TrimSpace(req.ListingID))
	if err != nil {
		if isNotFound(err) {
			return PaymentInstructions{}, s.mapError(goerrors.New(
				fmt.Sprintf("core: invalid listing %q", req.ListingID),
				goerrors.CategoryBadInput,
			).WithTextCode(MarketErrorBadRequest))
		}
		return PaymentInstructions{}, s.mapError(err)
	}
	if !listing.Verified() {
		return PaymentInstructions{}, s.mapError(goerrors.New(
			fmt.Sprintf("core: listing %q is not eligible for purchase", req.ListingID),
			goerrors.CategoryBadInput,
		).WithTextCode(MarketErrorBadRequest))
	}
	if listing.Author == req.Caller {
		return PaymentInstructions{}, s.mapError(goerrors.New(
			"core: invalid purchase of own listing",
			goerrors.CategoryBadInput,
		).WithTextCode(MarketErrorBadRequest))
	}

	now := s.now()
	if s.initiationPolicy != nil {
		if err = s.initiationPolicy.AllowInitiate(ctx, req.Caller, now); err != nil {
			return PaymentInstructions{}, s.mapError(err)
		}
	}

	memo := s.memoGenerator.Next(listing.ID, req.Caller, now)
	receiverAddress := s.accountAddress(listing.Author)
	deadline := now.Add(s.config.Payments.Window)

	order := PendingOrder{
		Memo:            memo,
		ListingID:       listing.ID,
		Buyer:           req.Caller,
		Seller:          listing.Author,
		ReceiverAddress: receiverAddress,
		Amount:          req.Amount,
		Method:          strings.TrimSpace(req.Method),
		StartBlock:      req.StartBlock,
		CreatedAt:       now,
		Deadline:        deadline,
	}

	if err = s.pendingOrders.Claim(ctx, order); err != nil {
		return PaymentInstructions{}, s.mapError(err)
	}

	if err = s.timeoutScheduler.Arm(memo, deadline, func() {
		s.DiscardExpiredOrder(context.Background(), memo)
	}); err != nil {
		// Roll the claim back so a failed arm does not leave an order nobody
		// can ever discard.
		_, _, _ = s.pendingOrders.Remove(ctx, memo)
		return PaymentInstructions{}, s.mapError(err)
	}

	return PaymentInstructions{
		Order:           order,
		ReceiverAddress: receiverAddress,
		Amount:          req.Amount,
		Memo:            memo,
		Deadline:        deadline.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// DiscardExpiredOrder is the timeout path: remove-if-present keyed by memo.
// Racing against a concurrent confirm is safe; whichever side removes the
// order first wins and the other treats the absence as a no-op.
func (s *Service) DiscardExpiredOrder(ctx context.Context, memo uint64) (PendingOrder, bool) {
	if s == nil || s.pendingOrders == nil {
		return PendingOrder{}, false
	}
	order, removed, err := s.pendingOrders.Remove(ctx, memo)
	if err != nil {
		s.logError(ctx, "pending order discard failed", map[string]any{
			"memo":  fmt.Sprintf("%d", memo),
			"error": err.Error(),
		})
		return PendingOrder{}, false
	}
	if !removed {
		return PendingOrder{}, false
	}
	s.recordCounter(ctx, "market.payment.discarded.total", 1, map[string]string{
		"listing_id": order.ListingID,
	})
	s.logInfo(ctx, "pending order discarded after deadline", map[string]any{
		"memo":       fmt.Sprintf("%d", memo),
		"listing_id": order.ListingID,
		"caller":     order.Buyer.String(),
	})
	return order, true
}

// ConfirmPayment resolves a pending order against the external ledger in two
// phases: the ledger read mutates nothing locally, and only after a matching
// transfer is found does the order get atomically removed and the payment
// persisted. A stale resumption, where the order was confirmed or discarded
// while the ledger read was in flight, is rejected.
func (s *Service) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (payment Payment, err error) {
	startedAt := s.now()
	defer s.recoverOperation("payment.confirm", &err)
	defer func() {
		s.observeOperation(ctx, startedAt, "payment.confirm", err, map[string]any{
			"memo": fmt.Sprintf("%d", req.Memo),
		})
	}()

	if req.Memo == 0 {
		return Payment{}, s.mapError(fmt.Errorf("core: memo is required"))
	}
	if s.pendingOrders == nil || s.paymentStore == nil || s.listingStore == nil {
		return Payment{}, s.mapError(fmt.Errorf("core: payment processing is not configured"))
	}

	// Phase 1: read-only. The order must still be live before we spend a
	// ledger round trip on it.
	order, live, err := s.pendingOrders.Get(ctx, req.Memo)
	if err != nil {
		return Payment{}, s.mapError(err)
	}
	if !live {
		return Payment{}, s.mapError(fmt.Errorf("%w: memo %d", ErrPendingOrderNotLive, req.Memo))
	}

	startBlock := req.StartBlock
	if startBlock == 0 {
		startBlock = order.StartBlock
	}

	matched, err := s.VerifyTransfer(ctx, VerifyTransferRequest{
		SenderAddress:   s.accountAddress(order.Buyer),
		ReceiverAddress: order.ReceiverAddress,
		Amount:          order.Amount,
		StartBlock:      startBlock,
		Memo:            req.Memo,
	})
	if err != nil || !matched {
		// Ledger trouble and a missing transfer both read as "not yet
		// confirmed": the order stays live and the caller may retry until
		// the timeout manager discards it.
		return Payment{}, s.mapError(fmt.Errorf("%w: memo %d", ErrTransferNotConfirmed, req.Memo))
	}

	// Phase 2: re-validate, then commit. Remove-if-present is the atomic
	// claim of the confirmation right against the timeout callback and any
	// competing confirm.
	order, removed, err := s.pendingOrders.Remove(ctx, req.Memo)
	if err != nil {
		return Payment{}, s.mapError(err)
	}
	if !removed {
		return Payment{}, s.mapError(fmt.Errorf("%w: memo %d", ErrPendingOrderNotLive, req.Memo))
	}

	if disarmErr := s.timeoutScheduler.Disarm(req.Memo); disarmErr != nil {
		s.logError(ctx, "timeout disarm failed", map[string]any{
			"memo":  fmt.Sprintf("%d", req.Memo),
			"error": disarmErr.Error(),
		})
	}

	listing, err := s.listingStore.Get(ctx, order.ListingID)
	if err != nil {
		return Payment{}, s.mapError(err)
	}

	now := s.now()
	payment = Payment{
		ID:            uuid.NewString(),
		ListingID:     order.ListingID,
		Payer:         order.Buyer,
		Weight:        listing.Weight,
		Amount:        order.Amount,
		Fee:           Fee(order.Amount, s.config.Payments.FeePercent),
		Method:        order.Method,
		TransactionID: uuid.NewString(),
		PaidAt:        now,
	}

	payment, err = s.paymentStore.Create(ctx, payment)
	if err != nil {
		return Payment{}, s.mapError(err)
	}
	return payment, nil
}

// Fee is the integer marketplace cut: floor(amount * percent / 100). Money
// math never touches floating point.
func Fee(amount int64, percent int64) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return amount * percent / 100
}

func (s *Service) accountAddress(identity Identity) string {
	if s != nil && s.addressDeriver != nil {
		return s.addressDeriver.AccountAddress(identity)
	}
	return identity.String()
}
