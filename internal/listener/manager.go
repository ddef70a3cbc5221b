package listener

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/funmud/funmud/internal/display"
	"github.com/funmud/funmud/internal/messaging"
	"github.com/funmud/funmud/internal/session"
)

// ConnectionManager bridges a line-based console connection (telnet, ssh)
// onto the game: inbound lines go to the session manager, outbound messages
// arrive over the connection's user subject.
type ConnectionManager struct {
	sessions *session.Manager
	bus      *messaging.NatsServer
}

func NewConnectionManager(sessions *session.Manager, bus *messaging.NatsServer) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
		bus:      bus,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runConnection(ctx, conn); err != nil && err != io.EOF {
		slog.WarnContext(ctx, "console connection", "error", err)
	}
}

func (m *ConnectionManager) runConnection(ctx context.Context, conn io.ReadWriter) error {
	br := bufio.NewReader(conn)

	// Console transports have no external identity, so ask for a handle and
	// derive a stable user id from it. The same handle reconnects to the
	// same user.
	handle, err := Prompt(br, conn, "What do they call you? ", WithValidator(
		func(str string) (bool, string) {
			if strings.TrimSpace(str) == "" {
				return false, "A name, please.\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return err
	}
	userID := "local:" + strings.ToLower(strings.TrimSpace(handle))

	unsub, err := m.bus.Subscribe(messaging.UserSubject(userID), func(data []byte) {
		msg, err := messaging.UnmarshalMessage(data)
		if err != nil {
			slog.WarnContext(ctx, "decoding outbound message", "user", userID, "error", err)
			return
		}
		m.writeMessage(conn, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribing %q: %w", userID, err)
	}
	defer unsub()

	// The handle itself is the first contact; it triggers the greeting.
	if err := m.sessions.Handle(ctx, userID, handle); err != nil {
		slog.WarnContext(ctx, "handling message", "user", userID, "error", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if herr := m.sessions.Handle(ctx, userID, line); herr != nil {
				slog.WarnContext(ctx, "handling message", "user", userID, "error", herr)
			}
		}
		if err != nil {
			return err
		}
	}
}

// writeMessage renders one outbound message for a text-only console. Images
// can't be shown inline, so they are summarized.
func (m *ConnectionManager) writeMessage(w io.Writer, msg *messaging.Message) {
	if msg.Text != "" {
		fmt.Fprintf(w, "%s\n", display.Wrap(msg.Text))
	}
	if len(msg.Image) > 0 {
		fmt.Fprintf(w, "[%s, %d bytes - connect over the web to see it]\n", msg.ImageName, len(msg.Image))
	}
}
