// Package identifier generates reference identifiers for SEPA messages.
//
// Every identifier has the shape PREFIX-yyyyMMddHHmmss-hex8, where hex8 is four
// random bytes.
package identifier

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixMessage     = "MSG"
	PrefixPaymentInfo = "PMT"
	PrefixEndToEnd    = "E2E"
	PrefixMandate     = "MANDATE"

	timestampLayout = "20060102150405"
)

// Generator holds no mutable state; concurrent calls are safe.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock creates a generator reading time from now.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// MessageID returns a group header message id. An empty prefix means "MSG".
func (g *Generator) MessageID(prefix string) string {
	return g.generate(prefix, PrefixMessage)
}

// PaymentInfoID returns a payment information id. An empty prefix means "PMT".
func (g *Generator) PaymentInfoID(prefix string) string {
	return g.generate(prefix, PrefixPaymentInfo)
}

// EndToEndID returns a transaction end-to-end id. An empty prefix means "E2E".
func (g *Generator) EndToEndID(prefix string) string {
	return g.generate(prefix, PrefixEndToEnd)
}

// MandateID returns a mandate reference. An empty prefix means "MANDATE".
func (g *Generator) MandateID(prefix string) string {
	return g.generate(prefix, PrefixMandate)
}

// CustomID returns an identifier with the given prefix as is.
func (g *Generator) CustomID(prefix string) string {
	return prefix + "-" + g.now().Format(timestampLayout) + "-" + randomHex()
}

func (g *Generator) generate(prefix, fallback string) string {
	if prefix == "" {
		prefix = fallback
	}
	return g.CustomID(prefix)
}

// randomHex returns 8 hex characters. The first four bytes of a version 4
// UUID are fully random.
func randomHex() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}
