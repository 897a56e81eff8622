package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrRecordNotFound               = errors.New("core: record not found")
	ErrInvalidWasteStatus           = errors.New("core: invalid waste status")
	ErrInvalidWasteStatusTransition = errors.New("core: invalid waste status transition")
	ErrInvalidRole                  = errors.New("core: invalid user role")
	ErrMemoCollision                = errors.New("core: memo collides with a live pending order")
	ErrPendingOrderNotLive          = errors.New("core: pending order is no longer live")
	ErrTransferNotConfirmed         = errors.New("core: transfer not yet confirmed on ledger")
)

// Identity is the opaque caller identifier used as the key for users and
// owners and embedded in listings and payments as author/payer reference.
type Identity string

func (i Identity) String() string { return string(i) }

func (i Identity) Validate() error {
	if strings.TrimSpace(string(i)) == "" {
		return fmt.Errorf("core: identity is required")
	}
	return nil
}

type Role string

const (
	// RoleSender lists waste for sale and may edit its own unverified listings.
	RoleSender Role = "sender"
	// RoleReceiver verifies listings authored by others and pays for them.
	RoleReceiver Role = "receiver"
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(value))) {
	case RoleSender:
		return RoleSender, nil
	case RoleReceiver:
		return RoleReceiver, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
	}
}

type Owner struct {
	Identity  Identity
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	Identity  Identity
	Name      string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WasteStatus string

const (
	WasteStatusUnverified WasteStatus = "unverified"
	WasteStatusVerified   WasteStatus = "verified"
)

func (s WasteStatus) Validate() error {
	switch s {
	case WasteStatusUnverified, WasteStatusVerified:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWasteStatus, string(s))
	}
}

func wasteStatusTransitionAllowed(from WasteStatus, to WasteStatus) bool {
	switch from {
	case WasteStatusUnverified:
		return to == WasteStatusUnverified || to == WasteStatusVerified
	case WasteStatusVerified:
		// Verification is one-shot; a verified listing never reverts and a
		// second verification attempt is rejected.
		return false
	default:
		return false
	}
}

type WasteListing struct {
	ID          string
	CategoryID  string
	Description string
	Weight      int64
	Status      WasteStatus
	Author      Identity
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *WasteListing) TransitionTo(status WasteStatus, now time.Time) error {
	if l == nil {
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}
	if !wasteStatusTransitionAllowed(l.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidWasteStatusTransition, l.Status, status)
	}
	l.Status = status
	l.UpdatedAt = now
	return nil
}

func (l WasteListing) Verified() bool {
	return l.Status == WasteStatusVerified
}

type Payment struct {
	ID            string
	ListingID     string
	Payer         Identity
	Weight        int64
	Amount        int64
	Fee           int64
	Method        string
	TransactionID string
	PaidAt        time.Time
}

// PendingOrder tracks an in-flight payment attempt from initiate until it is
// confirmed against the ledger or discarded by the timeout manager.
type PendingOrder struct {
	Memo            uint64
	ListingID       string
	Buyer           Identity
	Seller          Identity
	ReceiverAddress string
	Amount          int64
	Method          string
	StartBlock      uint64
	CreatedAt       time.Time
	Deadline        time.Time
}

func (o PendingOrder) Validate() error {
	if o.Memo == 0 {
		return fmt.Errorf("core: pending order memo is required")
	}
	if strings.TrimSpace(o.ListingID) == "" {
		return fmt.Errorf("core: pending order listing id is required")
	}
	if err := o.Buyer.Validate(); err != nil {
		return err
	}
	if o.Amount <= 0 {
		return fmt.Errorf("core: pending order amount must be positive")
	}
	return nil
}

type ListingFilter struct {
	Status     *WasteStatus
	CategoryID string
	Author     Identity
}

func FilterByStatus(status WasteStatus) ListingFilter {
	return ListingFilter{Status: &status}
}
