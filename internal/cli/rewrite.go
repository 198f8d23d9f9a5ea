package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhagedorn/wirecat/pkg/graphio"
	"github.com/jhagedorn/wirecat/pkg/wiring"
	"github.com/jhagedorn/wirecat/pkg/wiring/rewrite"
)

// Pass names accepted by --pass.
const (
	passAddJunctions    = "add-junctions"
	passRemoveJunctions = "remove-junctions"
	passCopy            = "copy"
	passDelete          = "delete"
	passCartesian       = "cartesian"
)

// rewriteOpts holds the command-line flags for the rewrite command.
type rewriteOpts struct {
	output string   // output file path, empty for stdout
	passes []string // passes to apply, in order
}

// newRewriteCmd creates the rewrite command for applying diagram passes.
//
// Passes run in the order given. The default sequence is "cartesian", the
// combined copy and dead-code fixpoint.
func newRewriteCmd() *cobra.Command {
	var passesStr string
	var opts rewriteOpts

	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Apply rewriting passes to a wiring diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.passes = parsePasses(passesStr)
			if err := validatePasses(opts.passes); err != nil {
				return err
			}
			return runRewrite(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&passesStr, "pass", "p", "", "pass(es) to apply: add-junctions, remove-junctions, copy, delete, cartesian (comma-separated, default: cartesian)")

	return cmd
}

// parsePasses parses the --pass flag into a slice of pass names.
// If empty, defaults to ["cartesian"].
func parsePasses(s string) []string {
	if s == "" {
		return []string{passCartesian}
	}
	return strings.Split(s, ",")
}

// validPasses is the set of supported pass names.
var validPasses = map[string]bool{
	passAddJunctions:    true,
	passRemoveJunctions: true,
	passCopy:            true,
	passDelete:          true,
	passCartesian:       true,
}

// validatePasses checks that all requested passes are valid.
func validatePasses(passes []string) error {
	for _, p := range passes {
		if !validPasses[p] {
			return fmt.Errorf("invalid pass: %s (must be 'add-junctions', 'remove-junctions', 'copy', 'delete', or 'cartesian')", p)
		}
	}
	return nil
}

// applyPass runs a single named pass on d in place.
func applyPass(d *wiring.Diagram, name string) (rewrite.Result, error) {
	switch name {
	case passAddJunctions:
		return rewrite.AddJunctions(d), nil
	case passRemoveJunctions:
		return rewrite.RemoveJunctions(d), nil
	case passCopy:
		return rewrite.NormalizeCopy(d), nil
	case passDelete:
		return rewrite.NormalizeDelete(d), nil
	case passCartesian:
		return rewrite.NormalizeCartesian(d)
	default:
		return rewrite.Result{}, fmt.Errorf("unknown pass: %s", name)
	}
}

// runRewrite loads the diagram, applies the requested passes in order, and
// writes the result as JSON.
func runRewrite(ctx context.Context, input string, opts *rewriteOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rewriting %s", input)

	d, err := graphio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded diagram: %d boxes, %d wires", d.BoxCount(), d.WireCount())

	var total rewrite.Result
	for _, name := range opts.passes {
		prog := newProgress(logger)
		res, err := applyPass(d, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		total.Merge(res)
		prog.done(fmt.Sprintf("Applied %s: %s", name, summarize(res)))
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := graphio.Write(d, out); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Rewrote %s", input)
		printFile(opts.output)
		printStats(d.BoxCount(), d.WireCount(), false)
	}
	return nil
}

// summarize renders a pass result as a compact human-readable string.
func summarize(r rewrite.Result) string {
	if r.Zero() {
		return "no changes"
	}
	var parts []string
	if r.JunctionsAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d junctions added", r.JunctionsAdded))
	}
	if r.JunctionsExpanded > 0 {
		parts = append(parts, fmt.Sprintf("%d junctions expanded", r.JunctionsExpanded))
	}
	if r.CopiesMerged > 0 {
		parts = append(parts, fmt.Sprintf("%d copies merged", r.CopiesMerged))
	}
	if r.DeadBoxesRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d dead boxes removed", r.DeadBoxesRemoved))
	}
	return strings.Join(parts, ", ")
}
