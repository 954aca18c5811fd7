package entity

const (
	AIName   = "AI"
	AIAvatar = "ai"
)

// Profile - display metadata of a participant. Engine logic never reads it.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func AIProfile() Profile {
	return Profile{
		ID:     AIParticipantID,
		Name:   AIName,
		Avatar: AIAvatar,
	}
}
