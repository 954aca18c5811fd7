package entity

type EffectKind string

const (
	EffectBoardReset  EffectKind = "BOARD_RESET"
	EffectExtraTurn   EffectKind = "EXTRA_TURN"
	EffectRemovePiece EffectKind = "REMOVE_PIECE"
	EffectSwapPieces  EffectKind = "SWAP_PIECES"
	EffectForceMove   EffectKind = "FORCE_MOVE"
	EffectShield      EffectKind = "SHIELD"
	EffectFreeze      EffectKind = "FREEZE"
	EffectTeleport    EffectKind = "TELEPORT"
	EffectHeal        EffectKind = "HEAL"
)

// SkillDescriptor - reference data for one skill. Gameplay never mutates it.
type SkillDescriptor struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	Description     string     `json:"description" yaml:"description"`
	Effect          EffectKind `json:"effect" yaml:"effect"`
	CooldownSeconds int        `json:"cooldown_seconds" yaml:"cooldown-seconds"`
	Cost            int        `json:"cost" yaml:"cost"`
	Enabled         bool       `json:"enabled" yaml:"enabled"`
}

// SkillRequest - what a participant asks a skill to do.
type SkillRequest struct {
	ParticipantID string
	Target        *int
	Params        string
}

var effectKinds = map[EffectKind]struct{}{
	EffectBoardReset:  {},
	EffectExtraTurn:   {},
	EffectRemovePiece: {},
	EffectSwapPieces:  {},
	EffectForceMove:   {},
	EffectShield:      {},
	EffectFreeze:      {},
	EffectTeleport:    {},
	EffectHeal:        {},
}

func (that EffectKind) IsKnown() bool {
	_, ok := effectKinds[that]
	return ok
}
