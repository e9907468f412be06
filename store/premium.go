package store

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// Premium is a local capability flag gating cosmetic extras. It is checked
// entirely client-side and carries no entitlement: nothing server-side ever
// validates it, and it must never guard anything that matters.
type Premium struct {
	store Store
	now   func() time.Time
}

const (
	premiumFlagKey   = "premiumActive"
	premiumExpiryKey = "premiumExpiry"

	// The flag self-invalidates after this duration.
	premiumTTL = 30 * 24 * time.Hour
)

// Key format accepted by Activate, e.g. CP-A1B2-C3D4.
var premiumKeyPattern = regexp.MustCompile(`^CP-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// ErrInvalidPremiumKey is a local format mismatch, never a network
// condition.
var ErrInvalidPremiumKey = errors.New("invalid premium key")

func NewPremium(s Store) *Premium {
	return &Premium{store: s, now: time.Now}
}

// Activate records the flag with a fresh expiry after a format check.
func (p *Premium) Activate(key string) error {
	if !premiumKeyPattern.MatchString(key) {
		return ErrInvalidPremiumKey
	}
	expiry := p.now().Add(premiumTTL).UnixMilli()
	if err := p.store.SetString(premiumFlagKey, "true"); err != nil {
		return err
	}
	return p.store.SetString(premiumExpiryKey, strconv.FormatInt(expiry, 10))
}

// Active reports whether the flag is set and unexpired. An expired or
// unparsable expiry deactivates the flag.
func (p *Premium) Active() bool {
	if p.store.GetString(premiumFlagKey, "") != "true" {
		return false
	}
	raw := p.store.GetString(premiumExpiryKey, "")
	expiry, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || p.now().UnixMilli() >= expiry {
		p.Deactivate()
		return false
	}
	return true
}

// Deactivate clears the flag pair.
func (p *Premium) Deactivate() {
	_ = p.store.Delete(premiumFlagKey)
	_ = p.store.Delete(premiumExpiryKey)
}
