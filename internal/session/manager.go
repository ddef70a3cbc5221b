// Package session is the per-user command state machine: it turns raw inbound
// text into onboarding transitions and, once a character is active, into
// world mutations and rendered scenes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/display"
	"github.com/funmud/funmud/internal/messaging"
	"github.com/funmud/funmud/internal/scene"
	"github.com/funmud/funmud/internal/store"
	"github.com/funmud/funmud/internal/world"
	"github.com/funmud/funmud/internal/worldgen"
)

// Publisher delivers outbound messages to a user's transport.
type Publisher interface {
	Send(userID string, msg *messaging.Message) error
}

// Manager drives one logical session per user. Messages from the same user
// are processed strictly one at a time; different users run concurrently.
type Manager struct {
	store    store.Store
	catalog  *assets.Catalog
	gen      *worldgen.Generator
	tracker  *world.Tracker
	composer *scene.Composer
	pub      Publisher

	// locks holds one mutex per user id ever seen; entries live for the
	// life of the process. At thousands of users that's a few hundred KB.
	// An idle-eviction sweep belongs here before any public deployment.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(st store.Store, catalog *assets.Catalog, gen *worldgen.Generator, composer *scene.Composer, pub Publisher) *Manager {
	return &Manager{
		store:    st,
		catalog:  catalog,
		gen:      gen,
		tracker:  world.NewTracker(st),
		composer: composer,
		pub:      pub,
		locks:    map[string]*sync.Mutex{},
	}
}

func (m *Manager) userLock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Handle processes one inbound message. Rejections surface to the user as
// short denial messages; store failures abort this message's processing but
// leave the session usable for the next one.
func (m *Manager) Handle(ctx context.Context, userID, text string) error {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	user, err := m.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		user = &world.User{ID: userID}
	} else if err != nil {
		return fmt.Errorf("loading user %q: %w", userID, err)
	}

	// A quit user's next unsolicited contact re-enables them and starts
	// over at the greeting.
	if user.Disabled {
		user.Restart()
		if user, err = m.store.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("re-enabling user %q: %w", userID, err)
		}
	}

	err = m.process(ctx, user, text)

	var uerr *UserError
	if errors.As(err, &uerr) {
		return m.sendText(user, uerr.Message)
	}
	if err != nil {
		slog.ErrorContext(ctx, "handling message", "user", userID, "state", user.State.String(), "err", err)
	}
	return err
}

func (m *Manager) process(ctx context.Context, user *world.User, text string) error {
	// Global overrides apply in every state.
	switch strings.ToLower(text) {
	case "help":
		return m.sendText(user, helpText)
	case "restart":
		user.Restart()
		return m.greet(ctx, user)
	case "quit":
		return m.quit(ctx, user)
	}

	switch user.State {
	case world.StateNew:
		return m.greet(ctx, user)
	case world.StateAwaitingCharacterType:
		return m.chooseType(ctx, user, text)
	case world.StateAwaitingCharacterName:
		return m.proposeName(ctx, user, text)
	case world.StateAwaitingNameConfirmation:
		return m.confirmName(ctx, user, text)
	case world.StateActive:
		return m.dispatch(ctx, user, text)
	}
	return fmt.Errorf("user %q in unknown state %d", user.ID, user.State)
}

// greet sends the introduction and character-selection screen, moving the
// user into type selection.
func (m *Manager) greet(ctx context.Context, user *world.User) error {
	screen, err := scene.SelectionScreen(m.catalog)
	if err != nil {
		return fmt.Errorf("rendering selection screen: %w", err)
	}

	var b strings.Builder
	b.WriteString("Hello, and welcome to FunMUD!\n")
	b.WriteString("You wake up on a beach next to the wreck of your ship.\n\n")
	b.WriteString("Who are you? Reply with a number:\n")
	for i, ct := range m.catalog.Roster() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, ct.Name)
	}

	user.State = world.StateAwaitingCharacterType
	if _, err := m.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	return m.send(user, &messaging.Message{
		Text:      b.String(),
		Image:     screen,
		ImageName: "characters.png",
	})
}

func (m *Manager) chooseType(ctx context.Context, user *world.User, text string) error {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return NewUserError(fmt.Sprintf("Reply with a number between 1 and %d.", len(m.catalog.Roster())))
	}
	ct, ok := m.catalog.CharacterType(i - 1)
	if !ok {
		return NewUserError(fmt.Sprintf("Reply with a number between 1 and %d.", len(m.catalog.Roster())))
	}

	char := &world.Character{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Type:   i - 1,
	}
	if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
		return fmt.Errorf("creating character: %w", err)
	}

	user.CharacterID = char.ID
	user.State = world.StateAwaitingCharacterName
	if _, err := m.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	return m.sendText(user, fmt.Sprintf("A fine %s. What's your name?", ct.Name))
}

func (m *Manager) proposeName(ctx context.Context, user *world.User, text string) error {
	char, err := m.character(ctx, user)
	if err != nil {
		return err
	}

	name := display.CanonicalName(text)
	if name == "" {
		return m.sendText(user, "What's your name?")
	}

	char.ProposeName(name)
	if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
		return fmt.Errorf("saving character %q: %w", char.ID, err)
	}

	user.State = world.StateAwaitingNameConfirmation
	if _, err := m.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	return m.sendText(user, fmt.Sprintf("You'll be known as %s. Is that right? (yes/no)", name))
}

func (m *Manager) confirmName(ctx context.Context, user *world.User, text string) error {
	char, err := m.character(ctx, user)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
	default:
		// Anything else is a fresh candidate name.
		name := display.CanonicalName(text)
		if name == "" {
			return m.sendText(user, "What's your name?")
		}
		char.ProposeName(name)
		if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
			return fmt.Errorf("saving character %q: %w", char.ID, err)
		}
		return m.sendText(user, fmt.Sprintf("You'll be known as %s. Is that right? (yes/no)", name))
	}

	char.ConfirmName()
	if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
		return fmt.Errorf("saving character %q: %w", char.ID, err)
	}

	user.State = world.StateActive
	if _, err := m.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}

	m.notifyOthers(ctx, char, narrate("materialize", narrationData{Name: char.Name}))

	if err := m.sendText(user, fmt.Sprintf("Welcome to the island, %s.", char.Name)); err != nil {
		return err
	}
	return m.doLook(ctx, user, char)
}

func (m *Manager) quit(ctx context.Context, user *world.User) error {
	// The farewell has to go out before the disabled flag suppresses it.
	if err := m.sendText(user, "Goodbye! Message me again any time to come back."); err != nil {
		return err
	}
	user.Quit()
	if _, err := m.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("saving user %q: %w", user.ID, err)
	}
	return nil
}

// character loads the user's linked character. A missing link in an active
// state is an internal inconsistency, not user error.
func (m *Manager) character(ctx context.Context, user *world.User) (*world.Character, error) {
	if user.CharacterID == "" {
		return nil, fmt.Errorf("user %q has no character in state %s", user.ID, user.State)
	}
	char, err := m.store.GetCharacter(ctx, user.CharacterID)
	if err != nil {
		return nil, fmt.Errorf("loading character %q: %w", user.CharacterID, err)
	}
	return char, nil
}

// room returns the persisted room at the coordinate, generating and storing
// it on first visit. Generation is first-writer-wins: if another session
// raced us to it, the stored layout is returned.
func (m *Manager) room(ctx context.Context, c world.Coords) (*world.Room, error) {
	r, err := m.store.GetRoom(ctx, c)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading room %s: %w", c, err)
	}

	r, err = m.store.CreateRoom(ctx, m.gen.Generate(c))
	if err != nil {
		return nil, fmt.Errorf("creating room %s: %w", c, err)
	}
	return r, nil
}

// occupants lists other active characters in the room, excluding the viewer.
func (m *Manager) occupants(ctx context.Context, char *world.Character) ([]*world.Character, error) {
	all, err := m.store.CharactersAt(ctx, char.Room)
	if err != nil {
		return nil, fmt.Errorf("listing occupants of %s: %w", char.Room, err)
	}
	others := make([]*world.Character, 0, len(all))
	for _, c := range all {
		if c.ID != char.ID {
			others = append(others, c)
		}
	}
	return others, nil
}

// notifyOthers sends a narration line to every other occupant of the
// character's room. Delivery problems are logged, not surfaced: bystander
// narration never fails the acting user's command.
func (m *Manager) notifyOthers(ctx context.Context, char *world.Character, line string) {
	others, err := m.occupants(ctx, char)
	if err != nil {
		slog.WarnContext(ctx, "listing bystanders", "room", char.Room.String(), "err", err)
		return
	}
	for _, other := range others {
		if err := m.pub.Send(other.UserID, &messaging.Message{Text: line}); err != nil {
			slog.WarnContext(ctx, "notifying bystander", "user", other.UserID, "err", err)
		}
	}
}

func (m *Manager) send(user *world.User, msg *messaging.Message) error {
	if user.Disabled {
		return nil
	}
	return m.pub.Send(user.ID, msg)
}

func (m *Manager) sendText(user *world.User, text string) error {
	return m.send(user, &messaging.Message{Text: text})
}
