package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
)

const (
	actionConnect = "connect"
	actionNew     = "match:new"
	actionJoin    = "match:join"
	actionWatch   = "match:watch"
	actionMove    = "match:move"
	actionSkill   = "match:skill"
	actionLeave   = "match:leave"
	actionState   = "match:state"
	actionPing    = "ping"
	actionError   = "error"
)

// Message - envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player  *entity.Profile `json:"player,omitempty"`
	MatchID string          `json:"match_id,omitempty"`
	AI      bool            `json:"ai,omitempty"`
	Tier    int             `json:"tier,omitempty"`
	Role    hub.Role        `json:"role,omitempty"`
	Cell    *int            `json:"cell,omitempty"`
	Skill   string          `json:"skill,omitempty"`
	Target  *int            `json:"target,omitempty"`
	Params  string          `json:"params,omitempty"`
}

type ResponsePayload struct {
	Player   *entity.Profile `json:"player,omitempty"`
	Match    *hub.Snapshot   `json:"match,omitempty"`
	Error    string          `json:"error,omitempty"`
	Category string          `json:"category,omitempty"`
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: raw})
}
