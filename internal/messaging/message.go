package messaging

import (
	"encoding/json"
	"fmt"
)

// Message is the wire envelope between the game and a user's transport. Text
// is always present; Image carries an optional png attachment with a
// suggested filename.
type Message struct {
	Text      string `json:"text,omitempty"`
	Image     []byte `json:"image,omitempty"`
	ImageName string `json:"image_name,omitempty"`
}

func (m *Message) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling message: %w", err)
	}
	return data, nil
}

func UnmarshalMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling message: %w", err)
	}
	return &m, nil
}

// UserSubject is the NATS subject a user's transport listens on.
func UserSubject(userID string) string {
	return fmt.Sprintf("user-%s", userID)
}
