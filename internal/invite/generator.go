// Package invite issues the short shareable codes that prove access to a
// non-public fundraiser.
package invite

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrExhaustedAttempts is returned when every generated candidate collided
// with a code already in the log. With the code's entropy this indicates an
// operational problem, not bad luck.
var ErrExhaustedAttempts = errors.New("invite code generation attempts exhausted")

// Codes read KF-XXXX-XXXX. The alphabet drops 0/O and 1/I so codes survive
// being read aloud or handwritten.
const (
	codePrefix    = "KF"
	codeAlphabet  = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	segmentLength = 4
	maxAttempts   = 8
)

// CodeIndex answers whether a code already appears anywhere in the log.
// *store.PostgresStore satisfies it.
type CodeIndex interface {
	InviteCodeExists(ctx context.Context, code string) (bool, error)
}

// Generator draws random codes and verifies them against the log before
// handing one out. The check-then-append window is a known race; the code
// space makes a double claim vanishingly unlikely at this write volume.
type Generator struct {
	index CodeIndex
}

func NewGenerator(index CodeIndex) *Generator {
	return &Generator{index: index}
}

// Generate returns a code not currently present in the log, or
// ErrExhaustedAttempts after a bounded number of collisions.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		exists, err := g.index.InviteCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("checking invite code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrExhaustedAttempts
}

func randomCode() (string, error) {
	buf := make([]byte, 0, len(codePrefix)+2*segmentLength+2)
	buf = append(buf, codePrefix...)
	for seg := 0; seg < 2; seg++ {
		buf = append(buf, '-')
		for i := 0; i < segmentLength; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				return "", fmt.Errorf("drawing random code char: %w", err)
			}
			buf = append(buf, codeAlphabet[n.Int64()])
		}
	}
	return string(buf), nil
}
