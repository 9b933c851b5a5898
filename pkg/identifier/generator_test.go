package identifier

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrefixes(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name string
		id   string
		re   string
	}{
		{"message", g.MessageID(""), `^MSG-\d{14}-[0-9a-f]{8}$`},
		{"payment info", g.PaymentInfoID(""), `^PMT-\d{14}-[0-9a-f]{8}$`},
		{"end to end", g.EndToEndID(""), `^E2E-\d{14}-[0-9a-f]{8}$`},
		{"mandate", g.MandateID(""), `^MANDATE-\d{14}-[0-9a-f]{8}$`},
		{"custom", g.CustomID("CUSTOM"), `^CUSTOM-\d{14}-[0-9a-f]{8}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.re), tt.id)
		})
	}
}

func TestCustomPrefix(t *testing.T) {
	g := NewGenerator()
	assert.Regexp(t, `^REM-\d{14}-[0-9a-f]{8}$`, g.MessageID("REM"))
	assert.Regexp(t, `^DOM-\d{14}-[0-9a-f]{8}$`, g.MandateID("DOM"))
}

func TestTimestampFromClock(t *testing.T) {
	fixed := time.Date(2025, 12, 16, 14, 2, 3, 0, time.UTC)
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	id := g.MessageID("")
	require.Len(t, id, len("MSG-20251216140203-")+8)
	assert.Equal(t, "MSG-20251216140203-", id[:19])
}

func TestUniqueness(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := g.EndToEndID("")
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestConcurrentUse(t *testing.T) {
	g := NewGenerator()
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{})
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := g.MessageID("")
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 800)
}
