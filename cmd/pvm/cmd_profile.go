package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/trace"
)

// opcodeCounter tallies executed instructions by mnemonic.
type opcodeCounter struct {
	counts map[string]uint64
	total  uint64
}

func newOpcodeCounter() *opcodeCounter {
	return &opcodeCounter{counts: make(map[string]uint64)}
}

func (c *opcodeCounter) WriteStep(step *trace.Step) error {
	c.counts[step.Name]++
	c.total++
	return nil
}

type opcodeCount struct {
	name  string
	count uint64
}

// sorted orders by count, most frequent first, then by name.
func (c *opcodeCounter) sorted() []opcodeCount {
	out := make([]opcodeCount, 0, len(c.counts))
	for name, n := range c.counts {
		out = append(out, opcodeCount{name, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func (c *opcodeCounter) print(w io.Writer, top int) {
	rows := c.sorted()
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	for _, r := range rows {
		pct := 0.0
		if c.total > 0 {
			pct = 100 * float64(r.count) / float64(c.total)
		}
		fmt.Fprintf(w, "%-28s %10d %6.2f%%\n", r.name, r.count, pct)
	}
	fmt.Fprintf(w, "%-28s %10d\n", "total", c.total)
}

func newProfileCmd(a *app) *cobra.Command {
	var (
		o    runOptions
		top  int
		html string
	)
	cmd := &cobra.Command{
		Use:   "profile <program>",
		Short: "Execute a program and count executed instructions by opcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := hostHandler(o.host); err != nil {
				return err
			}
			blob, err := a.readBlob(args[0])
			if err != nil {
				return err
			}
			vm, err := a.load(blob, &o)
			if err != nil {
				return err
			}
			counter := newOpcodeCounter()
			vm.SetTracer(counter)
			status, err := execute(cmd.Context(), vm, &o)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "status: %s, steps: %d, gas used: %d\n", status, vm.Steps(), vm.GasUsed())
			counter.print(w, top)
			log.Debug(log.CLIModule, "profile finished", "opcodes", len(counter.counts), "steps", counter.total)
			if html == "" {
				return nil
			}
			rows := counter.sorted()
			labels := make([]string, len(rows))
			values := make([]uint64, len(rows))
			for i, r := range rows {
				labels[i], values[i] = r.name, r.count
			}
			return writeBarChart(html, "Opcode profile", fmt.Sprintf("%d steps, status %s", counter.total, status), "executions", labels, values)
		},
	}
	bindRunFlags(cmd, &o)
	cmd.Flags().IntVar(&top, "top", 0, "only print the N most frequent opcodes")
	cmd.Flags().StringVar(&html, "html", "", "also write a bar chart to this HTML file")
	return cmd
}
