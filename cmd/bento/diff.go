package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
	"github.com/vango-dev/bento/pkg/diff"
	"github.com/vango-dev/bento/pkg/protocol"
	"github.com/vango-dev/bento/pkg/scenario"
)

func (a *app) diffCmd() *cobra.Command {
	var frames string

	cmd := &cobra.Command{
		Use:   "diff <scenario.yaml>",
		Short: "Print the edit scripts of a scenario",
		Long: `Print the edit script between each pair of consecutive renders of a
scenario, starting from an empty box.

Examples:
  bento diff profile.yaml
  bento diff profile.yaml --frames scripts.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiff(args[0], frames)
		},
	}

	cmd.Flags().StringVar(&frames, "frames", "", "Also write the scripts as binary protocol frames to this file")

	return cmd
}

func (a *app) runDiff(path, frames string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	boxes, err := sc.Boxes()
	if err != nil {
		return err
	}

	var out *os.File
	if frames != "" {
		if out, err = os.Create(frames); err != nil {
			return errors.New("E140").WithDetail(frames).Wrap(err)
		}
		defer out.Close()
	}

	prev := box.Box[string, string]{}
	for i, next := range boxes {
		script := diff.Compute(prev, next)
		a.printScript(i+1, sc.Renders[i].Name, script)

		if out != nil {
			f, err := protocol.EncodeScript(protocol.NewScriptMessage(uint64(i+1), script, false))
			if err != nil {
				return errors.New("E140").WithDetailf("render %d", i+1).Wrap(err)
			}
			if err := protocol.WriteFrame(out, f); err != nil {
				return errors.New("E140").WithDetail(frames).Wrap(err)
			}
		}
		prev = next
	}

	if out != nil {
		a.success("Wrote %d frames to %s", len(boxes), frames)
	}
	return nil
}

func (a *app) printScript(generation int, name string, script *diff.Script[string, string]) {
	title := fmt.Sprintf("render %d", generation)
	if name != "" {
		title += " (" + name + ")"
	}
	fmt.Fprintf(a.out, "%s: %d ops\n", title, script.Len())
	if script.IsEmpty() {
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, op := range script.Ops() {
		id := op.SectionID
		if op.Level == diff.LevelRow {
			id += "/" + op.RowID
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", op.Kind, op.Level, id, position(op))
	}
	w.Flush()
}

func position(op diff.Op[string, string]) string {
	from := fmt.Sprintf("[%d]", op.Section)
	to := fmt.Sprintf("[%d]", op.ToSection)
	if op.Level == diff.LevelRow {
		from = fmt.Sprintf("[%d, %d]", op.Section, op.Row)
		to = fmt.Sprintf("[%d, %d]", op.ToSection, op.ToRow)
	}
	switch op.Kind {
	case diff.OpDelete:
		return from
	case diff.OpInsert:
		return to
	default:
		return from + " -> " + to
	}
}
