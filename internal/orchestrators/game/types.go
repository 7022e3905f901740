package game

import (
	"context"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
)

//go:generate mockgen -destination=mock/mock_game.go -package=gamemock github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game Decider,Notifier

// Service runs game sessions
type Service interface {
	// Play runs one player's session until the player exits or the context
	// is cancelled. Progress is saved after every step, so a later Play
	// resumes where this one stopped, including mid-fight.
	Play(ctx context.Context, input *PlayInput) (*PlayOutput, error)
}

// Decider asks the player what to do next. It blocks until the player
// answers or ctx is done.
type Decider interface {
	Decide(ctx context.Context, prompt *Prompt) (*Action, error)
}

// Notifier tells the player what happened
type Notifier interface {
	Notify(ctx context.Context, event *Event) error
}

// PlayInput defines the request for a session
type PlayInput struct {
	PlayerID string
	Decider  Decider
	Notifier Notifier
}

// PlayOutput defines the result of a session
type PlayOutput struct {
	Player *entities.Player
	// Suspended is set when the player left in the middle of a fight
	Suspended bool
}

// PromptKind identifies what the player is being asked
type PromptKind string

const (
	PromptCastle    PromptKind = "castle"
	PromptDungeon   PromptKind = "dungeon"
	PromptFight     PromptKind = "fight"
	PromptConfirm   PromptKind = "confirm"
	PromptEncounter PromptKind = "encounter"
	PromptSlot      PromptKind = "slot"
)

// ActionKind is a player decision
type ActionKind string

const (
	ActionDescend    ActionKind = "descend"
	ActionExplore    ActionKind = "explore"
	ActionReturn     ActionKind = "return"
	ActionUseItem    ActionKind = "use"
	ActionUnequipAll ActionKind = "unequip"
	ActionAttack     ActionKind = "attack"
	ActionGuard      ActionKind = "guard"
	ActionSurrender  ActionKind = "surrender"
	ActionYes        ActionKind = "yes"
	ActionNo         ActionKind = "no"
	ActionWeapon     ActionKind = "weapon"
	ActionArmor      ActionKind = "armor"
	ActionExit       ActionKind = "exit"
)

// Prompt is a question put to the player
type Prompt struct {
	Kind    PromptKind   `json:"kind"`
	Options []ActionKind `json:"options"`
	// Subject names what a confirm or encounter prompt is about
	Subject string         `json:"subject,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	View    *View          `json:"view,omitempty"`
}

// Allows reports whether kind is one of the prompt's options
func (p *Prompt) Allows(kind ActionKind) bool {
	for _, o := range p.Options {
		if o == kind {
			return true
		}
	}
	return false
}

// Action is the player's answer to a prompt
type Action struct {
	Kind ActionKind `json:"kind"`
	// Index is the 1-based inventory position for ActionUseItem
	Index int `json:"index,omitempty"`
}

// EventKind identifies a notification
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventDescended EventKind = "descended"
	EventReturned  EventKind = "returned"
	EventLevelUp   EventKind = "level_up"
	EventFight     EventKind = "fight"
	EventVictory   EventKind = "victory"
	EventDefeat    EventKind = "defeat"
	EventSurrender EventKind = "surrender"
	EventDeath     EventKind = "death"
	EventRegion    EventKind = "region"
	EventEncounter EventKind = "encounter"
	EventItemUsed  EventKind = "item_used"
	EventEquipment EventKind = "equipment"
	EventRejected  EventKind = "rejected"
)

// EventKinds returns every event kind
func EventKinds() []EventKind {
	return []EventKind{
		EventCreated, EventDescended, EventReturned, EventLevelUp,
		EventFight, EventVictory, EventDefeat, EventSurrender, EventDeath,
		EventRegion, EventEncounter, EventItemUsed, EventEquipment, EventRejected,
	}
}

// Event is structured data about something that happened. Data keys are
// snake_case; values are strings, numbers or booleans.
type Event struct {
	Kind     EventKind            `json:"kind"`
	PlayerID string               `json:"player_id"`
	Data     map[string]any       `json:"data,omitempty"`
	Feed     []entities.FeedEntry `json:"feed,omitempty"`
}

// StackView is an inventory line
type StackView struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Quantity int    `json:"quantity"`
}

// EnemyView is the opponent of a fight
type EnemyView struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Boss  bool   `json:"boss,omitempty"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// View is the player's state as shown alongside a prompt
type View struct {
	PlayerID    string      `json:"player_id"`
	Level       int         `json:"level"`
	XP          int64       `json:"xp"`
	NextLevelXP int64       `json:"next_level_xp"`
	Gold        int64       `json:"gold"`
	Weapon      string      `json:"weapon"`
	Armor       string      `json:"armor"`
	Inventory   []StackView `json:"inventory"`

	InDungeon  bool   `json:"in_dungeon"`
	HP         int    `json:"hp"`
	MaxHP      int    `json:"max_hp"`
	Step       int    `json:"step"`
	Region     string `json:"region"`
	Reputation int64  `json:"reputation"`

	Enemy *EnemyView           `json:"enemy,omitempty"`
	Guard int                  `json:"guard,omitempty"`
	Feed  []entities.FeedEntry `json:"feed,omitempty"`
}
