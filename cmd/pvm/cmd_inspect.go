package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/jam-duna/jampvm/pvm/program"
)

func decodeProgram(blob []byte, standard bool) (*program.Program, error) {
	if !standard {
		return program.Decode(blob)
	}
	std, err := program.DecodeStandard(blob)
	if err != nil {
		return nil, err
	}
	return std.Program, nil
}

func (a *app) loadProgram(arg string, standard bool) (*program.Program, error) {
	blob, err := a.readBlob(arg)
	if err != nil {
		return nil, err
	}
	return decodeProgram(blob, standard)
}

func newDisasmCmd(a *app) *cobra.Command {
	var standard, tree bool
	cmd := &cobra.Command{
		Use:   "disasm <program>",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProgram(args[0], standard)
			if err != nil {
				return err
			}
			if tree {
				fmt.Fprintln(cmd.OutOrStdout(), blockTree(p).String())
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), p.DisassembleToString())
			return err
		},
	}
	cmd.Flags().BoolVar(&standard, "standard", false, "treat the blob as a standard program")
	cmd.Flags().BoolVar(&tree, "tree", false, "group instructions by basic block")
	return cmd
}

// blockTree renders the program as one branch per basic block.
func blockTree(p *program.Program) treeprint.Tree {
	insts := make(map[uint32]program.Instruction)
	for _, inst := range p.Disassemble() {
		insts[inst.PC] = inst
	}
	blocks := p.BasicBlocks()
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("program: %d bytes, %d blocks, %d jump table entries", len(p.Code()), len(blocks), p.JumpTable().Len()))
	for _, b := range blocks {
		branch := tree.AddBranch(fmt.Sprintf("block %d..%d gas=%d", b.Start, b.End, b.Gas))
		for _, pc := range b.Instructions {
			inst := insts[pc]
			if inst.Operands == "" {
				branch.AddNode(fmt.Sprintf("%d: %s", pc, inst.Name))
			} else {
				branch.AddNode(fmt.Sprintf("%d: %s %s", pc, inst.Name, inst.Operands))
			}
		}
	}
	return tree
}

func newBlockGasCmd(a *app) *cobra.Command {
	var standard bool
	var html string
	cmd := &cobra.Command{
		Use:   "blockgas <program>",
		Short: "Print the static gas cost of every basic block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProgram(args[0], standard)
			if err != nil {
				return err
			}
			costs := p.CalculateBlockGasCost()
			pcs := make([]uint32, 0, len(costs))
			for pc := range costs {
				pcs = append(pcs, pc)
			}
			sort.Slice(pcs, func(i, j int) bool { return pcs[i] < pcs[j] })

			w := cmd.OutOrStdout()
			labels := make([]string, 0, len(pcs))
			values := make([]uint64, 0, len(pcs))
			for _, pc := range pcs {
				fmt.Fprintf(w, "%8d %8d\n", pc, costs[pc])
				labels = append(labels, fmt.Sprintf("%d", pc))
				values = append(values, uint64(costs[pc]))
			}
			if html == "" {
				return nil
			}
			return writeBarChart(html, "Basic block gas", "static cost per block start", "gas", labels, values)
		},
	}
	cmd.Flags().BoolVar(&standard, "standard", false, "treat the blob as a standard program")
	cmd.Flags().StringVar(&html, "html", "", "also write a bar chart to this HTML file")
	return cmd
}

// writeBarChart renders one bar series to path.
func writeBarChart(path, title, subtitle, series string, labels []string, values []uint64) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	items := make([]opts.BarData, len(values))
	for i, v := range values {
		items[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(labels).AddSeries(series, items)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bar.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
