package skill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (that *manualClock) Now() time.Time {
	return that.now
}

func TestCooldownLedger(t *testing.T) {
	clock := &manualClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	ledger := NewCooldownLedger(clock.Now)
	key := CooldownKey{ParticipantID: "alice", MatchID: "m1", SkillID: "freeze"}

	t.Run("Unused skill is ready", func(t *testing.T) {
		assert.True(t, ledger.Ready(key, time.Minute))
		assert.Zero(t, ledger.Remaining(key, time.Minute))
	})

	t.Run("Used skill waits for its cooldown", func(t *testing.T) {
		// When: the skill is used
		ledger.Record(key)
		clock.now = clock.now.Add(20 * time.Second)

		// Then: it is blocked for the rest of the minute
		assert.False(t, ledger.Ready(key, time.Minute))
		assert.Equal(t, 40*time.Second, ledger.Remaining(key, time.Minute))

		// And: other participants and matches are not affected
		assert.True(t, ledger.Ready(CooldownKey{ParticipantID: "bob", MatchID: "m1", SkillID: "freeze"}, time.Minute))
		assert.True(t, ledger.Ready(CooldownKey{ParticipantID: "alice", MatchID: "m2", SkillID: "freeze"}, time.Minute))

		// When: the cooldown elapses exactly
		clock.now = clock.now.Add(40 * time.Second)

		// Then: it is ready again
		assert.True(t, ledger.Ready(key, time.Minute))
	})

	t.Run("Entries round trip through Restore", func(t *testing.T) {
		ledger.Record(CooldownKey{ParticipantID: "alice", MatchID: "m1", SkillID: "heal"})
		ledger.Record(CooldownKey{ParticipantID: "alice", MatchID: "m2", SkillID: "heal"})

		entries := ledger.Entries("m1")
		require.Len(t, entries, 2)
		assert.Equal(t, "freeze", entries[0].SkillID)
		assert.Equal(t, "heal", entries[1].SkillID)

		restored := NewCooldownLedger(clock.Now)
		restored.Restore(entries)

		assert.Equal(t, entries, restored.Entries("m1"))
		assert.Empty(t, restored.Entries("m2"))
	})
}
