package messaging

// UserPublisher delivers game output to users over their NATS subjects.
type UserPublisher struct {
	server *NatsServer
}

func NewUserPublisher(server *NatsServer) *UserPublisher {
	return &UserPublisher{server: server}
}

// Send publishes a message to a single user. Delivery is best-effort: a user
// with no connected transport simply has no subscriber on the subject.
func (p *UserPublisher) Send(userID string, msg *Message) error {
	data, err := msg.Marshal()
	if err != nil {
		return err
	}
	return p.server.Publish(UserSubject(userID), data)
}

// SendText publishes a text-only message to a single user.
func (p *UserPublisher) SendText(userID, text string) error {
	return p.Send(userID, &Message{Text: text})
}
