package skill

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed skills.yml
var defaultCatalog []byte

var (
	ErrEmptySkillID   = errors.New("skill id is empty")
	ErrDuplicateSkill = errors.New("duplicate skill id")
	ErrUnknownEffect  = errors.New("unknown effect kind")
	ErrNoHandler      = errors.New("no handler for effect")
)

type catalogFile struct {
	Skills []entity.SkillDescriptor `yaml:"skills"`
}

// Catalog - immutable set of skill descriptors, in file order.
type Catalog struct {
	skills []entity.SkillDescriptor
	byID   map[string]entity.SkillDescriptor
}

// LoadCatalog - reads the catalog at path, or the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill catalog: %w", err)
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skill catalog: %w", err)
	}

	catalog := &Catalog{
		skills: make([]entity.SkillDescriptor, 0, len(file.Skills)),
		byID:   make(map[string]entity.SkillDescriptor, len(file.Skills)),
	}

	for _, descriptor := range file.Skills {
		if descriptor.ID == "" {
			return nil, ErrEmptySkillID
		}

		if _, ok := catalog.byID[descriptor.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSkill, descriptor.ID)
		}

		if !descriptor.Effect.IsKnown() {
			return nil, fmt.Errorf("%w: %s in skill %s", ErrUnknownEffect, descriptor.Effect, descriptor.ID)
		}

		catalog.skills = append(catalog.skills, descriptor)
		catalog.byID[descriptor.ID] = descriptor
	}

	return catalog, nil
}

func (that *Catalog) Get(id string) (entity.SkillDescriptor, error) {
	descriptor, ok := that.byID[id]
	if !ok {
		return entity.SkillDescriptor{}, fmt.Errorf("%w: %s", apperror.ErrSkillNotFound, id)
	}

	return descriptor, nil
}

// Enabled - enabled skills in catalog order.
func (that *Catalog) Enabled() []entity.SkillDescriptor {
	skills := make([]entity.SkillDescriptor, 0, len(that.skills))
	for _, descriptor := range that.skills {
		if descriptor.Enabled {
			skills = append(skills, descriptor)
		}
	}

	return skills
}

func (that *Catalog) All() []entity.SkillDescriptor {
	return append([]entity.SkillDescriptor(nil), that.skills...)
}

// Verify - every skill, enabled or not, must have a handler in registry.
func (that *Catalog) Verify(registry *Registry) error {
	for _, descriptor := range that.All() {
		if !registry.Supports(descriptor.Effect) {
			return fmt.Errorf("%w: %s in skill %s", ErrNoHandler, descriptor.Effect, descriptor.ID)
		}
	}

	return nil
}

// Describe - one catalog line for a skill.
func Describe(descriptor entity.SkillDescriptor) string {
	return fmt.Sprintf("%s: %s cost: %d cooldown: %ds",
		descriptor.Name, descriptor.Description, descriptor.Cost, descriptor.CooldownSeconds)
}
