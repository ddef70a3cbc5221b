package world

import "fmt"

// SessionState is the onboarding/play state persisted on a User. Commands are
// interpreted against this explicit state, never inferred from which
// character fields happen to be set.
type SessionState int

const (
	// StateNew means the user has never been greeted (or asked to restart).
	StateNew SessionState = iota
	StateAwaitingCharacterType
	StateAwaitingCharacterName
	StateAwaitingNameConfirmation
	StateActive
)

func (s SessionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingCharacterType:
		return "awaiting-character-type"
	case StateAwaitingCharacterName:
		return "awaiting-character-name"
	case StateAwaitingNameConfirmation:
		return "awaiting-name-confirmation"
	case StateActive:
		return "active"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// User is a transport identity. Users are created on first contact and never
// hard-deleted; quit only sets Disabled until the next unsolicited contact.
type User struct {
	ID          string       `json:"id"`
	CharacterID string       `json:"character_id,omitempty"`
	State       SessionState `json:"state"`
	Disabled    bool         `json:"disabled,omitempty"`
}

// Restart drops the character link and returns the user to the greeting
// state. The character record itself is kept.
func (u *User) Restart() {
	u.CharacterID = ""
	u.State = StateNew
	u.Disabled = false
}

// Quit disables the user. Outbound messages are suppressed until their next
// unsolicited contact re-enables them.
func (u *User) Quit() {
	u.Disabled = true
}
