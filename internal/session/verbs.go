package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/funmud/funmud/internal/assets"
	"github.com/funmud/funmud/internal/messaging"
	"github.com/funmud/funmud/internal/scene"
	"github.com/funmud/funmud/internal/store"
	"github.com/funmud/funmud/internal/world"
)

const helpText = `You're stranded on an island. Look around, explore, and
gather coconuts. Bring them back to a collection hut to add them to your
lifetime score.

Commands:
  look (l)          see where you are
  go north          or just "north" or "n" (also s, e, w)
  say <something>   talk to anyone standing nearby
  take <thing>      pick something up
  drop              drop what you're carrying
  score             how many coconuts you're carrying
  top               the island leaderboards
  credits           who made this
  restart           start over with a new castaway
  quit              leave the island (message again to come back)`

const creditsText = `FunMUD - a tiny island of coconuts and questionable
navigation. Art, code and shipwreck by the FunMUD crew.`

// takeRetries bounds how often a take/drop re-reads the room after losing a
// version race to another occupant.
const takeRetries = 3

// dispatch routes one active-state message. Unknown verbs are dropped
// without a reply.
func (m *Manager) dispatch(ctx context.Context, user *world.User, text string) error {
	char, err := m.character(ctx, user)
	if err != nil {
		return err
	}

	verb, args := splitVerb(text)

	if d, ok := world.ParseDirection(verb); ok {
		return m.doMove(ctx, user, char, d)
	}

	switch verb {
	case "look", "l":
		return m.doLook(ctx, user, char)
	case "go":
		d, ok := world.ParseDirection(args)
		if !ok {
			return NewUserError("Go where? Try north, south, east or west.")
		}
		return m.doMove(ctx, user, char, d)
	case "say":
		return m.doSay(ctx, char, args)
	case "take", "get":
		return m.doTake(ctx, user, char, args)
	case "drop":
		return m.doDrop(ctx, user, char)
	case "score":
		return m.doScore(user, char)
	case "top":
		return m.doTop(ctx, user)
	case "credits":
		return m.sendText(user, creditsText)
	case "warp":
		return m.doWarp(ctx, user, char, args)
	}

	return nil
}

// splitVerb separates the first word from the rest, lowercasing only the
// verb so arguments keep the user's casing.
func splitVerb(text string) (verb, args string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	verb = strings.ToLower(parts[0])
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return verb, args
}

// doLook renders the character's current room and describes it.
func (m *Manager) doLook(ctx context.Context, user *world.User, char *world.Character) error {
	room, err := m.room(ctx, char.Room)
	if err != nil {
		return err
	}
	others, err := m.occupants(ctx, char)
	if err != nil {
		return err
	}
	usage, err := m.tracker.PathUsage(ctx, char.Room, m.catalog.PathVariants())
	if err != nil {
		return err
	}

	layers, err := m.composer.Compose(char, room, others, usage)
	if err != nil {
		return fmt.Errorf("composing scene at %s: %w", char.Room, err)
	}
	img, err := scene.Render(layers)
	if err != nil {
		return fmt.Errorf("rendering scene at %s: %w", char.Room, err)
	}

	return m.send(user, &messaging.Message{
		Text:      m.describeRoom(room, others),
		Image:     img,
		ImageName: "room.png",
	})
}

func (m *Manager) doMove(ctx context.Context, user *world.User, char *world.Character, d world.Direction) error {
	from := char.Room

	err := m.tracker.Move(ctx, char, d)
	if errors.Is(err, world.ErrBlocked) {
		return NewUserError("You can't go that way.")
	}
	if err != nil {
		return err
	}

	// Narrate the departure to whoever stayed behind, and the arrival to
	// whoever was already there.
	left := *char
	left.Room = from
	m.notifyOthers(ctx, &left, narrate("depart", narrationData{Name: char.Name, Direction: d.String()}))
	m.notifyOthers(ctx, char, narrate("arrive", narrationData{Name: char.Name, Direction: d.Opposite().String()}))

	return m.doLook(ctx, user, char)
}

// doSay broadcasts a quoted line to everyone else in the room. With no one
// around the words are simply lost to the wind.
func (m *Manager) doSay(ctx context.Context, char *world.Character, text string) error {
	if text == "" {
		return nil
	}
	m.notifyOthers(ctx, char, narrate("say", narrationData{Name: char.Name, Text: text}))
	return nil
}

func (m *Manager) doTake(ctx context.Context, user *world.User, char *world.Character, noun string) error {
	if noun == "" {
		return NewUserError("Take what?")
	}

	for attempt := 0; ; attempt++ {
		room, err := m.room(ctx, char.Room)
		if err != nil {
			return err
		}

		matched, takeable := false, false
		for i := range room.Objects {
			if !room.Objects[i].Matches(noun) {
				continue
			}
			matched = true
			if room.Objects[i].CanTake {
				takeable = true
			}
		}
		if !matched {
			return NewUserError("There's nothing like that here.")
		}
		if !takeable {
			return NewUserError("You can't take that.")
		}
		if char.Coconuts >= world.MaxCarry {
			return NewUserError("You can't carry any more.")
		}

		// Consume matching stacks up to remaining capacity: emptied
		// stacks leave the room, partial ones shrink.
		capacity := world.MaxCarry - char.Coconuts
		granted := 0
		remaining := make([]world.Object, 0, len(room.Objects))
		for _, obj := range room.Objects {
			if granted >= capacity || !obj.Matches(noun) || !obj.CanTake {
				remaining = append(remaining, obj)
				continue
			}
			amount := obj.Count
			if amount < 1 {
				amount = 1
			}
			if amount > capacity-granted {
				obj.Count = amount - (capacity - granted)
				granted = capacity
				remaining = append(remaining, obj)
				continue
			}
			granted += amount
		}

		_, err = m.store.SwapRoomObjects(ctx, room.Coords, remaining, room.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			if attempt < takeRetries {
				continue
			}
			return NewUserError("Someone beat you to it.")
		}
		if err != nil {
			return fmt.Errorf("updating room %s: %w", room.Coords, err)
		}

		char.Take(granted)
		if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
			return fmt.Errorf("saving character %q: %w", char.ID, err)
		}

		return m.sendText(user, fmt.Sprintf("You take %s. You're carrying %s.",
			coconutCount(granted), coconutCount(char.Coconuts)))
	}
}

func (m *Manager) doDrop(ctx context.Context, user *world.User, char *world.Character) error {
	if char.Coconuts == 0 {
		return NewUserError("You aren't carrying anything.")
	}

	room, err := m.room(ctx, char.Room)
	if err != nil {
		return err
	}

	atStation := false
	for i := range room.Objects {
		if tpl := m.catalog.Item(room.Objects[i].Name); tpl != nil && tpl.Class == assets.ClassStation {
			atStation = true
			break
		}
	}

	if atStation {
		n := char.Deposit()
		if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
			return fmt.Errorf("saving character %q: %w", char.ID, err)
		}
		return m.sendText(user, fmt.Sprintf("You drop off %s at the hut. Lifetime total: %s.",
			coconutCount(n), coconutCount(char.CoconutsReturned)))
	}

	n := char.Discard()
	if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
		return fmt.Errorf("saving character %q: %w", char.ID, err)
	}
	return m.sendText(user, fmt.Sprintf("You dump %s on the ground. What a waste.", coconutCount(n)))
}

func (m *Manager) doScore(user *world.User, char *world.Character) error {
	return m.sendText(user, fmt.Sprintf("You're carrying %s. Lifetime returned: %s.",
		coconutCount(char.Coconuts), coconutCount(char.CoconutsReturned)))
}

// doTop reports the island leaderboards: distinct rooms visited and lifetime
// coconuts returned.
func (m *Manager) doTop(ctx context.Context, user *world.User) error {
	const limit = 5

	explorers, err := m.store.TopByRoomsVisited(ctx, limit)
	if err != nil {
		return fmt.Errorf("loading explorer leaderboard: %w", err)
	}
	gatherers, err := m.store.TopByCoconutsReturned(ctx, limit)
	if err != nil {
		return fmt.Errorf("loading gatherer leaderboard: %w", err)
	}

	var b strings.Builder
	b.WriteString("Top explorers (rooms visited):\n")
	for i, e := range explorers {
		fmt.Fprintf(&b, "  %d. %s - %d\n", i+1, e.Name, e.Count)
	}
	if len(explorers) == 0 {
		b.WriteString("  nobody yet\n")
	}
	b.WriteString("Top gatherers (coconuts returned):\n")
	for i, e := range gatherers {
		fmt.Fprintf(&b, "  %d. %s - %d\n", i+1, e.Name, e.Count)
	}
	if len(gatherers) == 0 {
		b.WriteString("  nobody yet\n")
	}

	return m.sendText(user, strings.TrimRight(b.String(), "\n"))
}

// doWarp teleports straight to a coordinate. No move record is appended:
// warping is not a traversal and leaves no path behind.
func (m *Manager) doWarp(ctx context.Context, user *world.User, char *world.Character, args string) error {
	c, err := world.ParseCoords(args)
	if err != nil {
		return NewUserError("Warp where? Try something like: warp 10,-4")
	}
	if !c.InBounds() {
		return NewUserError("That's beyond the edge of the world.")
	}

	char.Room = c
	if _, err := m.store.UpsertCharacter(ctx, char); err != nil {
		return fmt.Errorf("saving character %q: %w", char.ID, err)
	}

	m.notifyOthers(ctx, char, narrate("materialize", narrationData{Name: char.Name}))
	return m.doLook(ctx, user, char)
}
