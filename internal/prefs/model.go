package prefs

import "time"

const (
	ModeLocal  = "LOCAL"
	ModeRemote = "REMOTE"

	DefaultLanguage = "pt"
	DefaultMode     = ModeRemote
)

// State is the onboarding position of a caller, derived entirely from the
// persisted row so a restarted process resumes every caller where they were.
type State int

const (
	AwaitingLanguage State = iota
	AwaitingMode
	Ready
)

type CallerPreference struct {
	CallerID  int64     `gorm:"primaryKey;column:caller_id" json:"caller_id"`
	Language  string    `gorm:"type:varchar(8)" json:"language"`
	Mode      string    `gorm:"type:varchar(16)" json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CallerPreference) TableName() string { return "caller_preferences" }

func (p CallerPreference) State() State {
	switch {
	case p.Language == "":
		return AwaitingLanguage
	case p.Mode == "":
		return AwaitingMode
	default:
		return Ready
	}
}

// LanguageOrDefault is what the pipeline uses; the raw field is what the
// state machine uses.
func (p CallerPreference) LanguageOrDefault() string {
	if p.Language == "" {
		return DefaultLanguage
	}
	return p.Language
}

func (p CallerPreference) ModeOrDefault() string {
	if p.Mode == "" {
		return DefaultMode
	}
	return p.Mode
}
