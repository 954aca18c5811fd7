package hub

import (
	"time"
)

func (that *Hub) sweepLoop() {
	defer that.wg.Done()

	ticker := time.NewTicker(that.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-that.ctx.Done():
			return
		case <-ticker.C:
			if evicted := that.sweep(); evicted > 0 {
				that.logger.Debug("evicted idle matches", "method", "sweep", "count", evicted)
			}
		}
	}
}

// sweep - evicts every unwatched match that is finished or idle past IdleTTL.
// Returns the number of evicted matches.
func (that *Hub) sweep() int {
	now := that.opts.Now()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return 0
	}

	evicted := 0
	for matchID, r := range that.rooms {
		r.mu.Lock()
		if r.members.subscribers() == 0 && (r.engine.State().IsFinished() || now.Sub(r.touched) >= that.opts.IdleTTL) {
			that.evict(matchID, r)
			evicted++
		}
		r.mu.Unlock()
	}

	return evicted
}
