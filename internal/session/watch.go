package session

import (
	"context"
	"time"
)

// Watch polls the gate every interval and calls onExpire once each time it
// goes from valid to not valid. It returns when ctx is done.
func Watch(ctx context.Context, g *Gate, interval time.Duration, onExpire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasValid := g.IsValid()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			valid := g.IsValid()
			if wasValid && !valid {
				onExpire()
			}
			wasValid = valid
		}
	}
}
