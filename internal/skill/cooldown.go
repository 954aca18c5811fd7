package skill

import (
	"sort"
	"sync"
	"time"
)

type CooldownKey struct {
	ParticipantID string
	MatchID       string
	SkillID       string
}

type CooldownEntry struct {
	ParticipantID string    `json:"participant_id"`
	MatchID       string    `json:"match_id"`
	SkillID       string    `json:"skill_id"`
	LastUsed      time.Time `json:"last_used"`
}

// CooldownLedger - last successful use per (participant, match, skill).
// Entries are never removed; they expire by comparison with the clock.
type CooldownLedger struct {
	mu      sync.RWMutex
	entries map[CooldownKey]time.Time
	now     func() time.Time
}

func NewCooldownLedger(now func() time.Time) *CooldownLedger {
	if now == nil {
		now = time.Now
	}

	return &CooldownLedger{
		entries: make(map[CooldownKey]time.Time),
		now:     now,
	}
}

func (that *CooldownLedger) Ready(key CooldownKey, cooldown time.Duration) bool {
	return that.Remaining(key, cooldown) == 0
}

// Remaining - time left before the skill can be used again, zero when ready.
func (that *CooldownLedger) Remaining(key CooldownKey, cooldown time.Duration) time.Duration {
	that.mu.RLock()
	lastUsed, ok := that.entries[key]
	that.mu.RUnlock()

	if !ok {
		return 0
	}

	elapsed := that.now().Sub(lastUsed)
	if elapsed >= cooldown {
		return 0
	}

	return cooldown - elapsed
}

func (that *CooldownLedger) Record(key CooldownKey) {
	that.mu.Lock()
	that.entries[key] = that.now()
	that.mu.Unlock()
}

// Entries - every entry of the match, ordered by participant then skill.
func (that *CooldownLedger) Entries(matchID string) []CooldownEntry {
	that.mu.RLock()
	entries := make([]CooldownEntry, 0)
	for key, lastUsed := range that.entries {
		if key.MatchID != matchID {
			continue
		}

		entries = append(entries, CooldownEntry{
			ParticipantID: key.ParticipantID,
			MatchID:       key.MatchID,
			SkillID:       key.SkillID,
			LastUsed:      lastUsed,
		})
	}
	that.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ParticipantID != entries[j].ParticipantID {
			return entries[i].ParticipantID < entries[j].ParticipantID
		}
		return entries[i].SkillID < entries[j].SkillID
	})

	return entries
}

// Restore - loads persisted entries, keeping the most recent use per key.
func (that *CooldownLedger) Restore(entries []CooldownEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, entry := range entries {
		key := CooldownKey{ParticipantID: entry.ParticipantID, MatchID: entry.MatchID, SkillID: entry.SkillID}
		if current, ok := that.entries[key]; ok && current.After(entry.LastUsed) {
			continue
		}
		that.entries[key] = entry.LastUsed
	}
}
