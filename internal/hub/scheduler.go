package hub

import (
	"time"
)

// scheduleAI - arms the AI turn for the given version, replacing a pending
// one. The caller holds the room lock.
func (that *Hub) scheduleAI(r *room, matchID string, version int64) {
	if that.ctx.Err() != nil {
		return
	}

	that.stopAI(r)

	r.aiSeq++
	seq := r.aiSeq

	that.wg.Add(1)
	r.aiTimer = time.AfterFunc(that.thinkDelay(), func() {
		defer that.wg.Done()
		that.playAI(r, matchID, version, seq)
	})
}

// stopAI - the caller holds the room lock.
func (that *Hub) stopAI(r *room) {
	if r.aiTimer == nil {
		return
	}

	if r.aiTimer.Stop() {
		that.wg.Done()
	}

	r.aiTimer = nil
}

// playAI - computes the AI move outside the room lock and applies it only if
// the match did not move on in the meantime.
func (that *Hub) playAI(r *room, matchID string, version int64, seq uint64) {
	log := that.logger.With("method", "playAI", "matchID", matchID, "version", version)

	r.mu.Lock()
	if r.aiSeq != seq {
		r.mu.Unlock()
		return
	}
	r.aiTimer = nil
	state := r.engine.State()
	r.mu.Unlock()

	if that.ctx.Err() != nil {
		return
	}

	if state.Version != version || !state.IsInProgress() || !state.IsAITurn() {
		log.Debug("ai turn is stale before search")
		return
	}

	cell, err := that.bot.NextMove(state)
	if err != nil {
		log.Error("ai failed to choose a move, skipping turn", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if that.ctx.Err() != nil || r.aiSeq != seq {
		return
	}

	if r.engine.Version() != version {
		log.Debug("discarding stale ai move", "cell", cell, "current", r.engine.Version())

		current := r.engine.State()
		if current.IsInProgress() && current.IsAITurn() {
			that.scheduleAI(r, matchID, current.Version)
		}

		return
	}

	if err = r.engine.ApplyAIMove(cell); err != nil {
		log.Error("failed to apply ai move", "cell", cell, "error", err)
		return
	}

	log.Info("ai moved", "cell", cell)

	that.afterTransition(that.ctx, r, r.engine.State())
}

func (that *Hub) thinkDelay() time.Duration {
	spread := that.opts.ThinkMax - that.opts.ThinkMin
	if spread <= 0 {
		return that.opts.ThinkMin
	}

	that.rngMu.Lock()
	defer that.rngMu.Unlock()

	return that.opts.ThinkMin + time.Duration(that.rng.Int63n(int64(spread)+1))
}
