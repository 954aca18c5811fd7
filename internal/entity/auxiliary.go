package entity

const (
	DefaultHealth    = 100
	DefaultMaxHealth = 100
)

// Auxiliary - skill-induced match status that does not live on the board.
type Auxiliary struct {
	Shields   int         `json:"shields"`
	Frozen    map[int]int `json:"frozen,omitempty"`
	Health    int         `json:"health,omitempty"`
	MaxHealth int         `json:"max_health,omitempty"`
}

// NewAuxiliary - health stays untracked until the first heal.
func NewAuxiliary() Auxiliary {
	return Auxiliary{}
}

func (that Auxiliary) HealthTracked() bool {
	return that.MaxHealth > 0
}

// TrackHealth - starts tracking health at the default values. No-op once tracked.
func (that *Auxiliary) TrackHealth() {
	if that.HealthTracked() {
		return
	}

	that.Health = DefaultHealth
	that.MaxHealth = DefaultMaxHealth
}

func (that Auxiliary) Clone() Auxiliary {
	clone := that
	if that.Frozen != nil {
		clone.Frozen = make(map[int]int, len(that.Frozen))
		for cell, turns := range that.Frozen {
			clone.Frozen[cell] = turns
		}
	}

	return clone
}

func (that Auxiliary) IsFrozen(cell int) bool {
	_, ok := that.Frozen[cell]
	return ok
}

// Freeze - the receiver must be a clone owned by the caller.
func (that *Auxiliary) Freeze(cell, turns int) {
	if that.Frozen == nil {
		that.Frozen = make(map[int]int)
	}
	that.Frozen[cell] = turns
}

// TickFreezes - decrements every freeze counter and drops the ones that reach zero.
func (that *Auxiliary) TickFreezes() {
	for cell, turns := range that.Frozen {
		if turns <= 1 {
			delete(that.Frozen, cell)
			continue
		}
		that.Frozen[cell] = turns - 1
	}

	if len(that.Frozen) == 0 {
		that.Frozen = nil
	}
}
