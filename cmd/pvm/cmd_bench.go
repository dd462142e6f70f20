package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/pvm/performance"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		standard bool
		args     string
		runs     int
		outDir   string
	)
	cmd := &cobra.Command{
		Use:   "bench <program>",
		Short: "Time a program on every backend",
		Long:  "Run the program on the interpreter and the compiler and compare wall time. With --out a JSON report and an HTML chart are written.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			blob, err := a.readBlob(cmdArgs[0])
			if err != nil {
				return err
			}
			argBytes, err := parseHexBytes(args)
			if err != nil {
				return fmt.Errorf("--args: %w", err)
			}
			report, err := performance.RunBackends(blob, performance.Options{
				Gas:      a.cfg.Gas,
				Runs:     runs,
				Standard: standard,
				Args:     argBytes,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			s := report.Stats
			fmt.Fprintf(w, "program %s: %d bytes, %d instructions, %d blocks\n", report.Program, s.CodeSize, s.InstructionCount, s.BasicBlockCount)
			for _, r := range report.Results {
				fmt.Fprintf(w, "%-12s %-10s steps=%d avg=%s min=%s max=%s\n", r.Backend, r.Status, r.Steps,
					time.Duration(r.AvgNs), time.Duration(r.MinNs), time.Duration(r.MaxNs))
			}
			if len(report.Backends) == 2 {
				fmt.Fprintf(w, "speedup %s/%s: %.2fx\n", report.Backends[0], report.Backends[1], report.Speedup(report.Backends[0], report.Backends[1]))
			}
			if outDir == "" {
				return nil
			}
			cfg := performance.DefaultChartConfig()
			cfg.OutputDir = outDir
			jsonPath, htmlPath, err := performance.WriteReport(report, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "wrote %s and %s\n", jsonPath, htmlPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&standard, "standard", false, "treat the blob as a standard program")
	f.StringVar(&args, "args", "", "0x hex argument bytes for --standard")
	f.IntVar(&runs, "runs", performance.DefaultRuns, "runs per backend")
	f.StringVar(&outDir, "out", "", "directory for the JSON report and HTML chart")
	return cmd
}
