// Package access decides who may read or write a gated fundraiser. The
// decision is a pure function of caller identity, the projected invite
// configuration and the code the caller supplied; it performs no I/O.
package access

import (
	"errors"
	"strings"

	"github.com/wakati-labs/kwaheri/internal/domain"
)

// ErrForbidden is returned when the gate denies access. Callers keep it
// distinct from their not-found conditions.
var ErrForbidden = errors.New("forbidden")

// NormalizeCode canonicalizes an invite code for comparison: surrounding
// whitespace is ignored and matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check evaluates the gate in precedence order: the owner always passes,
// PUBLIC fundraisers pass unconditionally, and everything else requires a
// non-empty supplied code equal to the stored one after normalization.
// LINK_ONLY and PRIVATE are deliberately equivalent here; only PUBLIC is
// distinguished.
func Check(callerID, ownerID string, cfg domain.InviteConfig, suppliedCode string) error {
	if callerID != "" && callerID == ownerID {
		return nil
	}
	if cfg.VisibilityType == domain.VisibilityPublic {
		return nil
	}

	supplied := NormalizeCode(suppliedCode)
	if supplied != "" && supplied == NormalizeCode(cfg.InviteCode) {
		return nil
	}
	return ErrForbidden
}

// Allowed is Check as a boolean, for list filtering.
func Allowed(callerID, ownerID string, cfg domain.InviteConfig, suppliedCode string) bool {
	return Check(callerID, ownerID, cfg, suppliedCode) == nil
}
