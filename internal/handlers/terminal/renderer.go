// Package terminal plays sessions on a line-oriented terminal
package terminal

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
)

type styles struct {
	status   lipgloss.Style
	title    lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	system   lipgloss.Style
	option   lipgloss.Style
	feedUs   lipgloss.Style
	feedThem lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		status:   r.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Bold(true),
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("228")),
		good:     r.NewStyle().Foreground(lipgloss.Color("34")),
		bad:      r.NewStyle().Foreground(lipgloss.Color("196")),
		system:   r.NewStyle().Foreground(lipgloss.Color("243")),
		option:   r.NewStyle().Foreground(lipgloss.Color("39")),
		feedUs:   r.NewStyle().Foreground(lipgloss.Color("255")),
		feedThem: r.NewStyle().Foreground(lipgloss.Color("209")),
	}
}

// Renderer writes prompts and events for a person at a terminal. It
// implements game.Notifier.
type Renderer struct {
	out    io.Writer
	styles styles
}

var _ game.Notifier = (*Renderer)(nil)

// NewRenderer creates a renderer on out. Colors follow what out supports.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, styles: newStyles(lipgloss.NewRenderer(out))}
}

// Notify prints an event
func (r *Renderer) Notify(_ context.Context, event *game.Event) error {
	var b strings.Builder
	for _, entry := range event.Feed {
		b.WriteString(r.feedLine(entry))
		b.WriteByte('\n')
	}
	line := Describe(event)
	switch event.Kind {
	case game.EventVictory, game.EventLevelUp, game.EventRegion, game.EventCreated:
		line = r.styles.good.Render(line)
	case game.EventDefeat, game.EventDeath, game.EventSurrender:
		line = r.styles.bad.Render(line)
	case game.EventRejected:
		line = r.styles.system.Render(line)
	}
	b.WriteString(line)
	b.WriteByte('\n')
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Prompt prints the player's state and the choices of a prompt
func (r *Renderer) Prompt(p *game.Prompt) {
	var b strings.Builder
	if p.View != nil {
		b.WriteString(r.styles.status.Render(StatusLine(p.View)))
		b.WriteByte('\n')
		if p.View.Enemy != nil && p.Kind == game.PromptFight {
			e := p.View.Enemy
			fmt.Fprintf(&b, "%s  HP %d/%d", r.styles.title.Render(e.Name), e.HP, e.MaxHP)
			if p.View.Guard > 0 {
				fmt.Fprintf(&b, "  guard %d", p.View.Guard)
			}
			b.WriteByte('\n')
		}
		if len(p.View.Inventory) > 0 && p.Allows(game.ActionUseItem) {
			for _, stack := range p.View.Inventory {
				fmt.Fprintf(&b, "  [%d] %s x%d\n", stack.Position, stack.Name, stack.Quantity)
			}
		}
	}
	if q := question(p); q != "" {
		b.WriteString(r.styles.title.Render(q))
		b.WriteByte('\n')
	}
	options := make([]string, 0, len(p.Options)+1)
	for i, o := range p.Options {
		options = append(options, fmt.Sprintf("%d) %s", i+1, optionLabel(o)))
	}
	if !p.Allows(game.ActionExit) {
		options = append(options, "q) quit")
	}
	b.WriteString(r.styles.option.Render(strings.Join(options, "  ")))
	b.WriteString("\n> ")
	_, _ = io.WriteString(r.out, b.String())
}

// Problem prints a line the player typed that could not be understood
func (r *Renderer) Problem(err error) {
	_, _ = fmt.Fprintln(r.out, r.styles.system.Render(err.Error()))
}

func (r *Renderer) feedLine(e entities.FeedEntry) string {
	who := "You"
	other := "the enemy"
	style := r.styles.feedUs
	if e.Actor == entities.SideEnemy {
		who, other, style = "The enemy", "you", r.styles.feedThem
	}
	var line string
	switch e.Action {
	case entities.FeedAttack:
		switch {
		case e.Dodged:
			line = fmt.Sprintf("%s missed %s", who, other)
		case e.Critical:
			line = fmt.Sprintf("%s hit %s critically for %d", who, other, e.Amount)
		default:
			line = fmt.Sprintf("%s hit %s for %d", who, other, e.Amount)
		}
	case entities.FeedGuard:
		line = fmt.Sprintf("%s raised a guard", who)
	case entities.FeedItem:
		line = fmt.Sprintf("%s used %s", who, e.Item)
	case entities.FeedPump:
		line = fmt.Sprintf("%s is pumping up", who)
	case entities.FeedWipeout:
		line = fmt.Sprintf("%s read a scroll of wipeout", who)
	case entities.FeedResist:
		line = fmt.Sprintf("%s resisted", who)
	default:
		line = fmt.Sprintf("%s: %s", who, e.Action)
	}
	return style.Render("  " + line)
}

// StatusLine summarizes a view on one line
func StatusLine(v *game.View) string {
	parts := []string{
		fmt.Sprintf("Lv %d", v.Level),
		fmt.Sprintf("XP %d/%d", v.XP, v.NextLevelXP),
		fmt.Sprintf("Gold %d", v.Gold),
		fmt.Sprintf("%s / %s", v.Weapon, v.Armor),
	}
	if v.InDungeon {
		parts = append(parts,
			fmt.Sprintf("HP %d/%d", v.HP, v.MaxHP),
			fmt.Sprintf("%s step %d", v.Region, v.Step),
		)
	}
	return " " + strings.Join(parts, " | ") + " "
}

func question(p *game.Prompt) string {
	switch p.Kind {
	case game.PromptCastle:
		return "You are in the castle."
	case game.PromptDungeon:
		return "The corridor stretches on."
	case game.PromptFight:
		return "Your move."
	case game.PromptSlot:
		return fmt.Sprintf("Upgrade which slot with %s?", p.Subject)
	case game.PromptConfirm:
		if p.Subject == game.ResurrectSubject {
			return "Whatever you raise will attack you at once. Really resurrect it?"
		}
		return fmt.Sprintf("Really %s?", p.Subject)
	case game.PromptEncounter:
		return encounterQuestion(p)
	}
	return ""
}

func encounterQuestion(p *game.Prompt) string {
	switch p.Subject {
	case "merchant":
		if abandoned, _ := p.Data["abandoned"].(bool); abandoned {
			return "You find an abandoned shop. Look around?"
		}
		return fmt.Sprintf("A merchant offers %v for %v gold. Buy it?", p.Data["offer"], p.Data["price"])
	case "chest":
		return "You find a chest. Open it?"
	case "scrollbook":
		return "You find a scrollbook. Read it?"
	case "resurrection":
		return "A dark altar hums. Touch it?"
	}
	return fmt.Sprintf("You come across a %s. Go ahead?", p.Subject)
}

func optionLabel(kind game.ActionKind) string {
	switch kind {
	case game.ActionUseItem:
		return "use <item>"
	case game.ActionUnequipAll:
		return "unequip all"
	}
	return string(kind)
}

// Describe turns an event into a sentence
func Describe(e *game.Event) string {
	d := e.Data
	switch e.Kind {
	case game.EventCreated:
		return fmt.Sprintf("A new adventurer arrives with %v gold.", d["gold"])
	case game.EventDescended:
		return fmt.Sprintf("You descend into the dungeon at level %v with %v/%v HP.", d["level"], d["hp"], d["max_hp"])
	case game.EventReturned:
		return "You make it back to the castle. " + statsSentence(d)
	case game.EventLevelUp:
		return fmt.Sprintf("Level up! You reached level %v. HP %v/%v.", d["level"], d["hp"], d["max_hp"])
	case game.EventFight:
		if boss, _ := d["boss"].(bool); boss {
			return fmt.Sprintf("%v blocks the way!", d["name"])
		}
		return fmt.Sprintf("A %v attacks!", d["name"])
	case game.EventVictory:
		line := fmt.Sprintf("You defeated %v and earned %v gold and %v xp.", d["name"], d["gold"], d["xp"])
		if item, ok := d["item"]; ok {
			line += fmt.Sprintf(" It dropped %v.", item)
		}
		return line
	case game.EventDefeat:
		return fmt.Sprintf("%v knocked you down.", d["name"])
	case game.EventSurrender:
		return fmt.Sprintf("You fled and left behind: %v. %s", orNothing(d["lost"]), statsSentence(d))
	case game.EventDeath:
		return fmt.Sprintf("You died and lost: %v. %s", orNothing(d["lost"]), statsSentence(d))
	case game.EventRegion:
		return fmt.Sprintf("The way to %v is open.", d["name"])
	case game.EventEncounter:
		return encounterSentence(d)
	case game.EventItemUsed:
		return itemSentence(d)
	case game.EventEquipment:
		if names, ok := d["unequipped"]; ok {
			return fmt.Sprintf("You unequipped: %v.", orNothing(names))
		}
		if replaced, ok := d["replaced"]; ok {
			return fmt.Sprintf("You equipped %v in place of %v.", d["equipped"], replaced)
		}
		return fmt.Sprintf("You equipped %v.", d["equipped"])
	case game.EventRejected:
		return fmt.Sprintf("%v", d["message"])
	}
	return formatData(string(e.Kind), d)
}

func statsSentence(d map[string]any) string {
	return fmt.Sprintf("Enemies slain %v, healing used %v, chests opened %v, books read %v, items bought %v.",
		d["enemies_slain"], d["healing_consumed"], d["chests_opened"], d["books_read"], d["items_purchased"])
}

func encounterSentence(d map[string]any) string {
	accepted, _ := d["accepted"].(bool)
	kind := fmt.Sprintf("%v", d["kind"])
	if !accepted && kind != "loot" {
		return fmt.Sprintf("You leave the %s alone.", kind)
	}
	var parts []string
	if item, ok := d["item"]; ok {
		parts = append(parts, fmt.Sprintf("found %v", item))
	}
	if gold, ok := d["gold"]; ok {
		parts = append(parts, fmt.Sprintf("found %v gold", gold))
	}
	if paid, ok := d["paid"]; ok {
		parts = append(parts, fmt.Sprintf("paid %v gold", paid))
	}
	if hp, ok := d["hp_lost"]; ok {
		parts = append(parts, fmt.Sprintf("lost %v HP", hp))
	}
	if xp, ok := d["xp"]; ok {
		parts = append(parts, fmt.Sprintf("gained %v xp", xp))
	}
	if boss, ok := d["boss"]; ok {
		parts = append(parts, fmt.Sprintf("woke %v", boss))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("The %s held nothing.", kind)
	}
	return fmt.Sprintf("At the %s you %s.", kind, strings.Join(parts, " and "))
}

func itemSentence(d map[string]any) string {
	line := fmt.Sprintf("You used %v.", d["item"])
	if healed, ok := d["healed"]; ok {
		line += fmt.Sprintf(" Healed %v HP.", healed)
	}
	if xp, ok := d["xp_gained"]; ok {
		line += fmt.Sprintf(" Gained %v xp.", xp)
	}
	if upgraded, ok := d["upgraded"]; ok {
		line += fmt.Sprintf(" It is now %v.", upgraded)
	}
	if wiped, _ := d["wiped"].(bool); wiped {
		line += " The enemy is gone."
	}
	if resisted, _ := d["resisted"].(bool); resisted {
		line += " The enemy resisted."
	}
	return line
}

func orNothing(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return "nothing"
	}
	if v == nil {
		return "nothing"
	}
	return v
}

// formatData renders unknown events as key=value pairs in key order
func formatData(kind string, d map[string]any) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{kind}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, d[k]))
	}
	return strings.Join(parts, " ")
}
