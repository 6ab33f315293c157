// Package codegen produces the human-readable identifiers used across the
// system: invoice numbers (INV + timestamp) and entity codes (PRD/SUP/EMP +
// random digits, collision-checked against the store).
package codegen

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"
)

// MaxAttempts bounds the collision-retry loop. Exhaustion means the code
// space for the prefix is effectively full and is surfaced as a fatal error
// rather than looping forever.
const MaxAttempts = 20

// ErrExhausted is returned when MaxAttempts candidates all collided.
var ErrExhausted = errors.New("codegen: exhausted attempts generating unique code")

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(code string) (bool, error)

// Generate returns prefix + digits random decimal digits, retrying on
// collision up to MaxAttempts times.
func Generate(prefix string, digits int, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := prefix + RandomDigits(digits)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// RandomDigits returns n random decimal digits.
func RandomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// InvoiceNumber formats the invoice identifier for a sale committed at t:
// INV followed by the timestamp to the second. Effectively unique; the sale
// engine still verifies against the ledger and falls back to a suffixed
// candidate when two sales land in the same second.
func InvoiceNumber(t time.Time) string {
	return "INV" + t.Format("20060102150405")
}
