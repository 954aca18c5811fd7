package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("Embedded catalog covers every effect", func(t *testing.T) {
		// When: loading without a path
		catalog, err := LoadCatalog("")

		// Then: every registered effect has a skill
		require.NoError(t, err)

		registry := NewRegistry()
		effects := map[entity.EffectKind]bool{}
		for _, descriptor := range catalog.All() {
			assert.True(t, registry.Supports(descriptor.Effect))
			effects[descriptor.Effect] = true
		}
		assert.Len(t, effects, 9)

		freeze, err := catalog.Get("freeze")
		require.NoError(t, err)
		assert.Equal(t, entity.EffectFreeze, freeze.Effect)
		assert.True(t, freeze.Enabled)
	})

	t.Run("Reads catalog from file and lists enabled skills", func(t *testing.T) {
		// Given: a catalog file with a disabled skill
		path := filepath.Join(t.TempDir(), "skills.yml")
		content := `
skills:
  - id: shield
    name: Shield
    description: Adds a layer
    effect: SHIELD
    cooldown-seconds: 10
    cost: 5
    enabled: true
  - id: heal
    name: Heal
    effect: HEAL
    enabled: false
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		catalog, err := LoadCatalog(path)

		// Then: both skills exist but only one is enabled
		require.NoError(t, err)
		assert.Len(t, catalog.All(), 2)
		require.Len(t, catalog.Enabled(), 1)
		assert.Equal(t, "shield", catalog.Enabled()[0].ID)
		assert.Equal(t, 10, catalog.Enabled()[0].CooldownSeconds)
		assert.Equal(t, "Shield: Adds a layer cost: 5 cooldown: 10s", Describe(catalog.Enabled()[0]))
	})

	t.Run("Verify requires a handler for every skill", func(t *testing.T) {
		// Given: the embedded catalog
		catalog, err := LoadCatalog("")
		require.NoError(t, err)

		// Then: the built-in registry covers it, an empty one does not
		require.NoError(t, catalog.Verify(NewRegistry()))
		assert.ErrorIs(t, catalog.Verify(&Registry{handlers: map[entity.EffectKind]Handler{}}), ErrNoHandler)
	})

	t.Run("Rejects invalid catalogs", func(t *testing.T) {
		_, err := ParseCatalog([]byte("skills:\n  - id: a\n    effect: LASER\n"))
		assert.ErrorIs(t, err, ErrUnknownEffect)

		_, err = ParseCatalog([]byte("skills:\n  - id: a\n    effect: HEAL\n  - id: a\n    effect: HEAL\n"))
		assert.ErrorIs(t, err, ErrDuplicateSkill)

		_, err = ParseCatalog([]byte("skills:\n  - effect: HEAL\n"))
		assert.ErrorIs(t, err, ErrEmptySkillID)
	})

	t.Run("Unknown id is not found", func(t *testing.T) {
		catalog, err := LoadCatalog("")
		require.NoError(t, err)

		_, err = catalog.Get("nope")
		assert.ErrorIs(t, err, apperror.ErrResourceNotFound)
	})
}
