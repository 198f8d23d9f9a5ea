package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jhagedorn/wirecat/pkg/graphio"
	"github.com/jhagedorn/wirecat/pkg/wiring"
	"github.com/jhagedorn/wirecat/pkg/wiring/ordering"
)

// newInspectCmd creates the inspect command for examining diagram structure.
func newInspectCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the structure of a wiring diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse boxes interactively")

	return cmd
}

// runInspect loads the diagram and prints its structure, or launches the
// interactive box browser with --interactive.
func runInspect(ctx context.Context, input string, interactive bool) error {
	logger := loggerFromContext(ctx)
	logger.Debugf("Inspecting %s", input)

	d, err := graphio.ImportJSON(input)
	if err != nil {
		return err
	}

	if interactive {
		model := NewBoxListModel(d)
		p := tea.NewProgram(model, tea.WithContext(ctx))
		_, err := p.Run()
		return err
	}

	printInspect(d)
	return nil
}

// printInspect writes a static structure summary to stdout.
func printInspect(d *wiring.Diagram) {
	fmt.Println(StyleTitle.Render("Diagram"))
	printKeyValue("inputs", valueList(d.Inputs()))
	printKeyValue("outputs", valueList(d.Outputs()))
	printKeyValue("boxes", fmt.Sprintf("%d", d.BoxCount()))
	printKeyValue("wires", fmt.Sprintf("%d", d.WireCount()))
	fmt.Println()

	layers := ordering.Layers(d)
	for _, id := range d.BoxIDs() {
		b, _ := d.Box(id)
		printDetail("n%-4d %-9s %-20s layer %d  %d in, %d out",
			id, b.Kind, boxLabel(b), layers[id], len(d.WiresInto(id)), len(d.WiresOutOf(id)))
	}
}

// boxLabel returns a short display label for a box.
func boxLabel(b wiring.Box) string {
	switch b.Kind {
	case wiring.BoxAtomic:
		return b.Name
	case wiring.BoxJunction:
		return fmt.Sprintf("%s (%d to %d)", b.Value, b.NIn, b.NOut)
	default:
		return string(b.Value)
	}
}

// valueList joins value tags for display.
func valueList(vs []wiring.Value) string {
	if len(vs) == 0 {
		return "-"
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
