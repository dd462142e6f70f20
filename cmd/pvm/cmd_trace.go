package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/pvm/trace"
)

func newTraceDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tracediff <left.jsonl> <right.jsonl>",
		Short: "Report the first step at which two JSONL traces diverge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer left.Close()
			right, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer right.Close()

			d, err := trace.Compare(left, right)
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "traces are identical")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.String())
			return fmt.Errorf("traces diverge at line %d", d.Line)
		},
	}
}
