package terminal

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
)

var quitWords = map[string]bool{"q": true, "quit": true, "exit": true}

// ParseAction reads a typed line as an answer to prompt. The first word is
// an option number, an action name or a unique prefix of one; "use" takes
// the inventory position as a second word.
func ParseAction(prompt *game.Prompt, line string) (*game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, errors.InvalidArgument("type one of the options")
	}
	word := fields[0]
	if quitWords[word] {
		return &game.Action{Kind: game.ActionExit}, nil
	}

	kind, err := matchOption(prompt.Options, word)
	if err != nil {
		return nil, err
	}
	action := &game.Action{Kind: kind}
	if kind != game.ActionUseItem {
		return action, nil
	}

	if len(fields) < 2 {
		return nil, errors.InvalidArgument("which item? type use and its number")
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 1 {
		return nil, errors.InvalidArgumentf("%q is not an item number", fields[1])
	}
	action.Index = index
	return action, nil
}

func matchOption(options []game.ActionKind, word string) (game.ActionKind, error) {
	if n, err := strconv.Atoi(word); err == nil {
		if n < 1 || n > len(options) {
			return "", errors.InvalidArgumentf("there is no option %d", n)
		}
		return options[n-1], nil
	}

	var matches []game.ActionKind
	for _, o := range options {
		if string(o) == word {
			return o, nil
		}
		if strings.HasPrefix(string(o), word) {
			matches = append(matches, o)
		}
	}
	switch len(matches) {
	case 0:
		return "", errors.InvalidArgumentf("%q is not an option", word)
	case 1:
		return matches[0], nil
	}
	return "", errors.InvalidArgumentf("%q could mean more than one option", word)
}

// Decider asks a person at a terminal. It implements game.Decider.
type Decider struct {
	in       io.Reader
	renderer *Renderer

	once  sync.Once
	lines chan string
}

var _ game.Decider = (*Decider)(nil)

// NewDecider creates a decider reading answers from in and printing
// prompts through renderer
func NewDecider(in io.Reader, renderer *Renderer) *Decider {
	return &Decider{in: in, renderer: renderer}
}

// Decide prints the prompt and reads lines until one parses. The end of
// input leaves the session.
func (d *Decider) Decide(ctx context.Context, prompt *game.Prompt) (*game.Action, error) {
	d.once.Do(d.startReading)
	d.renderer.Prompt(prompt)
	for {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "stopped waiting for input")
		case line, ok := <-d.lines:
			if !ok {
				return &game.Action{Kind: game.ActionExit}, nil
			}
			action, err := ParseAction(prompt, line)
			if err == nil {
				return action, nil
			}
			d.renderer.Problem(err)
			d.renderer.Prompt(prompt)
		}
	}
}

func (d *Decider) startReading() {
	d.lines = make(chan string)
	go func() {
		defer close(d.lines)
		scanner := bufio.NewScanner(d.in)
		for scanner.Scan() {
			d.lines <- scanner.Text()
		}
	}()
}
