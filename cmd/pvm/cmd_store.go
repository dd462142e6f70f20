package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the content-addressed program store",
		Long:  "Programs are stored under their blake2b-256 hash and can be run as hash:<hash>.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "put <program>",
			Short: "Add a program and print its hash",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				blob, err := a.readBlob(args[0])
				if err != nil {
					return err
				}
				s, err := a.openStore()
				if err != nil {
					return err
				}
				h, err := s.Put(blob)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), h.Hex())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <hash> [file]",
			Short: "Print a stored program as hex, or write it to file",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				blob, err := a.readBlob(hashPrefix + args[0])
				if err != nil {
					return err
				}
				if len(args) == 2 {
					return os.WriteFile(args[1], blob, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(blob))
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List stored program hashes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				hashes, err := s.Hashes()
				if err != nil {
					return err
				}
				for _, h := range hashes {
					blob, err := s.Get(h)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", h.Hex(), len(blob))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <hash>",
			Short: "Delete a stored program",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args[0]) != 2+2*common.HashLength {
					return fmt.Errorf("bad program hash %q", args[0])
				}
				s, err := a.openStore()
				if err != nil {
					return err
				}
				return s.Delete(common.HexToHash(args[0]))
			},
		},
	)
	return cmd
}
