package core

import (
	"context"
	"fmt"
	"strings"
)

type VerifyTransferRequest struct {
	SenderAddress   string
	ReceiverAddress string
	Amount          int64
	StartBlock      uint64
	Memo            uint64
}

// VerifyTransfer scans a bounded window of ledger blocks for a transfer whose
// memo, source, destination and amount all match the pending order. The read
// crosses a system boundary and performs no local mutation; any transport or
// decode failure surfaces as an error the caller treats as not-yet-confirmed.
func (s *Service) VerifyTransfer(ctx context.Context, req VerifyTransferRequest) (matched bool, err error) {
	defer s.recoverOperation("ledger.verify", &err)

	if s == nil || s.ledgerClient == nil {
		return false, fmt.Errorf("core: ledger client is not configured")
	}
	if req.Memo == 0 {
		return false, fmt.Errorf("core: memo is required")
	}

	window := s.config.Ledger.ScanWindow
	if window == 0 {
		window = DefaultConfig().Ledger.ScanWindow
	}

	blocks, err := s.ledgerClient.QueryBlocks(ctx, req.StartBlock, window)
	if err != nil {
		s.logError(ctx, "ledger query failed", map[string]any{
			"memo":        fmt.Sprintf("%d", req.Memo),
			"start_block": req.StartBlock,
			"error":       err.Error(),
		})
		return false, err
	}

	for _, block := range blocks {
		if transferMatches(block.Transfer, req) {
			return true, nil
		}
	}
	return false, nil
}

func transferMatches(transfer *LedgerTransfer, req VerifyTransferRequest) bool {
	if transfer == nil {
		return false
	}
	if transfer.Memo != req.Memo {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(transfer.From), strings.TrimSpace(req.SenderAddress)) {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(transfer.To), strings.TrimSpace(req.ReceiverAddress)) {
		return false
	}
	return transfer.Amount == req.Amount
}
