package rpgtoolkit

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
)

// EventPrefix namespaces game events on the bus
const EventPrefix = "dungeon."

// Context keys set on every published event
const (
	ContextKeyKind = "kind"
	ContextKeyData = "data"
)

// EventType is the bus event type of a game event kind
func EventType(kind game.EventKind) string {
	return EventPrefix + string(kind)
}

// BusNotifierConfig configures a BusNotifier
type BusNotifierConfig struct {
	Bus events.EventBus
	// Next receives every event after it is published; optional
	Next game.Notifier
}

// Validate checks that all required dependencies are provided
func (c *BusNotifierConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Bus == nil {
		vb.RequiredField("Bus")
	}
	return vb.Build()
}

// BusNotifier publishes game events on a toolkit event bus
type BusNotifier struct {
	bus  events.EventBus
	next game.Notifier
}

var _ game.Notifier = (*BusNotifier)(nil)

// NewBusNotifier creates a notifier publishing on cfg.Bus
func NewBusNotifier(cfg *BusNotifierConfig) (*BusNotifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bus notifier config")
	}
	return &BusNotifier{bus: cfg.Bus, next: cfg.Next}, nil
}

// Notify publishes the event and hands it on to the next notifier.
// A failed publish is logged; delivery to the next notifier still happens.
func (n *BusNotifier) Notify(ctx context.Context, event *game.Event) error {
	if event == nil {
		return errors.InvalidArgument("event is required")
	}

	var target core.Entity
	if key, ok := event.Data["enemy"].(string); ok {
		if enemy, found := lookupEnemy(key); found {
			target = enemy
		}
	}

	published := events.NewGameEvent(EventType(event.Kind), &PlayerEntity{ID: event.PlayerID}, target)
	published.Context().Set(ContextKeyKind, string(event.Kind))
	published.Context().Set(ContextKeyData, event.Data)

	if err := n.bus.Publish(ctx, published); err != nil {
		slog.WarnContext(ctx, "Failed to publish game event",
			"player_id", event.PlayerID,
			"event", string(event.Kind),
			"error", err)
	}

	if n.next == nil {
		return nil
	}
	return n.next.Notify(ctx, event)
}

// SubscribeAudit logs every game event published on bus at info level.
// It returns the subscription IDs.
func SubscribeAudit(bus events.EventBus, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	handler := func(ctx context.Context, e events.Event) error {
		args := []any{"event", e.Type()}
		if src := e.Source(); src != nil {
			args = append(args, "player_id", src.GetID())
		}
		if dst := e.Target(); dst != nil {
			args = append(args, "target", dst.GetID(), "target_type", dst.GetType())
		}
		if data, ok := e.Context().Get(ContextKeyData); ok {
			args = append(args, "data", data)
		}
		logger.InfoContext(ctx, "Game event", args...)
		return nil
	}

	kinds := game.EventKinds()
	ids := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		ids = append(ids, bus.SubscribeFunc(EventType(kind), 0, handler))
	}
	return ids
}
