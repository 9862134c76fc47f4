package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/undokit/pkg/adapters/structs"
	"github.com/aretw0/undokit/pkg/command"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
)

// Car is the object edited by the demo.
type Car struct {
	Value string `mapstructure:"value" json:"value"`
	Color string `mapstructure:"color" json:"color,omitempty"`
}

// RunDemo walks through grouped undo and redo on a car and a slice of colours,
// writing each step to w.
func RunDemo(w io.Writer, logger *slog.Logger) error {
	h := history.New(history.WithLogger(logger))

	car := &Car{Value: "$15,000"}
	target, err := structs.New[string](car)
	if err != nil {
		return err
	}

	show := func(label string) {
		data, _ := json.Marshal(car)
		fmt.Fprintf(w, "%-28s %s\n", label, data)
	}

	priceCmd, err := command.NewFieldSet[string](target, "$20,000")
	if err != nil {
		return err
	}
	printSystemMessage(w, "A command changes nothing until it is pushed.")
	show("created:")

	steps := []step{
		{"push value:", func() error { return h.Push(priceCmd) }},
		{"undo:", func() error { _, err := h.Undo(); return err }},
	}
	if err := run(steps, show); err != nil {
		return err
	}

	car.Color = "yellow"
	colorCmd, err := command.NewFieldSet[string](target, "green", "color")
	if err != nil {
		return err
	}

	printSystemMessage(w, "Separate pushes need one undo each.")
	steps = []step{
		{"push value, push color:", func() error {
			if err := h.Push(priceCmd); err != nil {
				return err
			}
			return h.Push(colorCmd)
		}},
		{"undo, undo:", func() error {
			if _, err := h.Undo(); err != nil {
				return err
			}
			_, err := h.Undo()
			return err
		}},
	}
	if err := run(steps, show); err != nil {
		return err
	}

	printSystemMessage(w, "One push of both commands is undone at once.")
	steps = []step{
		{"push value+color:", func() error { return h.Push(priceCmd, colorCmd) }},
		{"undo:", func() error { _, err := h.Undo(); return err }},
		{"redo:", func() error { _, err := h.Redo(); return err }},
	}
	if err := run(steps, show); err != nil {
		return err
	}

	h.ClearHistory()
	printSystemMessage(w, "Any Apply/Revert pair is a command.")

	colors := []string{"red", "green"}
	appendColor := func(c string) domain.Command {
		return command.Func{
			ApplyFn:  func() error { colors = append(colors, c); return nil },
			RevertFn: func() error { colors = colors[:len(colors)-1]; return nil },
		}
	}
	showColors := func(label string) {
		fmt.Fprintf(w, "%-28s %v\n", label, colors)
	}

	if err := h.Push(appendColor("blue"), appendColor("yellow")); err != nil {
		return err
	}
	showColors("push blue+yellow:")
	if _, err := h.Undo(); err != nil {
		return err
	}
	showColors("undo:")
	if _, err := h.Undo(); err != nil {
		return err
	}
	showColors("undo (nothing left):")
	return nil
}

type step struct {
	label string
	fn    func() error
}

func run(steps []step, show func(string)) error {
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s %w", s.label, err)
		}
		show(s.label)
	}
	return nil
}
