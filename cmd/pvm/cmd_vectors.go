package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm"
	"github.com/jam-duna/jampvm/pvm/testvectors"
)

func newVectorsCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "vectors [dir]",
		Short: "Run JSON test vectors against the configured backend",
		Long:  "Run every *.json vector in dir, or the built-in vectors when no dir is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cases []*testvectors.TestCase
				err   error
			)
			if len(args) == 1 {
				cases, err = testvectors.LoadDir(args[0])
			} else {
				cases, err = testvectors.Builtin()
			}
			if err != nil {
				return err
			}
			pool, err := pvm.NewInstanceManager(a.cfg.Backend, a.cfg.PoolSize)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, r := range testvectors.RunAll(cmd.Context(), cases, pool) {
				switch {
				case r.Err != nil:
					failed++
					fmt.Fprintf(w, "ERROR %s: %v\n", r.Name, r.Err)
				case !r.Passed:
					failed++
					fmt.Fprintf(w, "FAIL  %s\n%s\n", r.Name, r.Diff)
				case verbose:
					fmt.Fprintf(w, "ok    %s\n", r.Name)
				}
			}
			fmt.Fprintf(w, "%d/%d vectors passed (%s)\n", len(cases)-failed, len(cases), a.cfg.Backend)
			log.Info(log.VectorsModule, "vectors done", "backend", a.cfg.Backend, "total", len(cases), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d vectors failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "list passing vectors too")
	return cmd
}
