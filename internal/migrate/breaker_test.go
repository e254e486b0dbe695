package migrate

import (
	"sync"
	"testing"
)

func TestQuotaBreaker(t *testing.T) {
	t.Run("starts clear", func(t *testing.T) {
		b := NewQuotaBreaker()
		if b.Tripped() {
			t.Error("expected new breaker to be clear")
		}
	})

	t.Run("stays tripped", func(t *testing.T) {
		b := NewQuotaBreaker()
		b.Trip()
		b.Trip()
		if !b.Tripped() {
			t.Error("expected breaker to stay tripped")
		}
	})

	t.Run("concurrent trips are safe", func(t *testing.T) {
		b := NewQuotaBreaker()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Trip()
			}()
		}
		wg.Wait()

		if !b.Tripped() {
			t.Error("expected breaker to be tripped")
		}
	})
}
