package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[CreateWasteMessage]     = (*CreateWasteCommand)(nil)
	_ gocmd.Commander[UpdateWasteMessage]     = (*UpdateWasteCommand)(nil)
	_ gocmd.Commander[InitiatePaymentMessage] = (*InitiatePaymentCommand)(nil)
	_ gocmd.Commander[ConfirmPaymentMessage]  = (*ConfirmPaymentCommand)(nil)
	_ gocmd.Commander[DiscardOrderMessage]    = (*DiscardOrderCommand)(nil)
)
