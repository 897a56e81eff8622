package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/goliatone/go-waste-market/core"
)

const defaultAddressPrefix = "wm1"

// AccountDeriver maps a marketplace identity to its ledger account address.
// The derivation is pure so the same identity always resolves to the same
// address on every node.
type AccountDeriver struct {
	Prefix string
}

func NewAccountDeriver() *AccountDeriver {
	return &AccountDeriver{Prefix: defaultAddressPrefix}
}

func (d *AccountDeriver) AccountAddress(identity core.Identity) string {
	trimmed := strings.TrimSpace(identity.String())
	if trimmed == "" {
		return ""
	}
	prefix := defaultAddressPrefix
	if d != nil && strings.TrimSpace(d.Prefix) != "" {
		prefix = strings.TrimSpace(d.Prefix)
	}
	digest := sha256.Sum256([]byte(prefix + ":" + trimmed))
	return prefix + hex.EncodeToString(digest[:20])
}

var _ core.AddressDeriver = (*AccountDeriver)(nil)
