package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/jamerrors"
	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm"
	"github.com/jam-duna/jampvm/pvm/memory"
	"github.com/jam-duna/jampvm/pvm/pvmtypes"
	"github.com/jam-duna/jampvm/pvm/trace"
)

const (
	hostStop   = "stop"
	hostResume = "resume"
)

type runOptions struct {
	standard bool
	args     string
	pc       uint32
	regs     []string
	maxSteps uint64
	host     string
	pages    []uint
}

func newRunCmd(a *app) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Execute a program and print its final state",
		Long: `Execute a program given as 0x hex, hash:<hash> from the program store, or a file.
With --standard the blob is a standard program container laid out with --args.
Host calls either stop the run (--host=stop) or are resumed without side effects (--host=resume).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := a.readBlob(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), blob, &o)
		},
	}
	bindRunFlags(cmd, &o)
	cmd.Flags().UintSliceVar(&o.pages, "dump-page", nil, "print the contents of these page numbers")
	return cmd
}

func bindRunFlags(cmd *cobra.Command, o *runOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.standard, "standard", false, "treat the blob as a standard program")
	f.StringVar(&o.args, "args", "", "0x hex argument bytes for --standard")
	f.Uint32Var(&o.pc, "pc", 0, "initial program counter")
	f.StringSliceVar(&o.regs, "reg", nil, "initial register as idx=value, repeatable")
	f.Uint64Var(&o.maxSteps, "max-steps", 0, "stop after this many instructions (0 = no limit)")
	f.StringVar(&o.host, "host", hostStop, "host call policy: stop or resume")
}

// hostHandler maps a --host policy to the handler passed to pvm.Invoke.
func hostHandler(policy string) (pvm.HostCallHandler, error) {
	switch policy {
	case hostStop:
		return nil, nil
	case hostResume:
		return pvm.HostCallFunc(func(_ context.Context, index uint32, vm pvm.Backend) error {
			vm.Registers().Set(7, pvmtypes.WHAT)
			log.Info(log.CLIModule, "host call", "index", index, "name", pvmtypes.HostFnToName(index), "pc", vm.PC(), "gas", vm.Gas(),
				"result", pvmtypes.HostResultName(pvmtypes.WHAT))
			return nil
		}), nil
	}
	return nil, fmt.Errorf("unknown host policy %q", policy)
}

// load creates a backend of the configured kind with blob loaded.
func (a *app) load(blob []byte, o *runOptions) (pvm.Backend, error) {
	vm, err := pvm.NewBackend(a.cfg.Backend)
	if err != nil {
		return nil, err
	}
	gas := pvmtypes.Gas(a.cfg.Gas)
	if o.standard {
		argBytes, err := parseHexBytes(o.args)
		if err != nil {
			return nil, fmt.Errorf("--args: %w", err)
		}
		if err := vm.ResetStandard(blob, argBytes, o.pc, gas); err != nil {
			return nil, err
		}
		return vm, nil
	}
	regs, err := parseRegs(o.regs)
	if err != nil {
		return nil, err
	}
	if err := vm.ResetGeneric(blob, o.pc, regs, gas); err != nil {
		return nil, err
	}
	return vm, nil
}

// execute drives vm to completion. Stopping at a host call under the stop
// policy is not an error.
func execute(ctx context.Context, vm pvm.Backend, o *runOptions) (pvmtypes.Status, error) {
	handler, err := hostHandler(o.host)
	if err != nil {
		return vm.Status(), err
	}
	status, err := pvm.Invoke(ctx, vm, handler, o.maxSteps)
	if errors.Is(err, jamerrors.ErrHostUnsupported) {
		err = nil
	}
	return status, err
}

func (a *app) run(ctx context.Context, w io.Writer, blob []byte, o *runOptions) error {
	if _, err := hostHandler(o.host); err != nil {
		return err
	}
	for _, n := range o.pages {
		if n > math.MaxUint32/memory.PageSize {
			return fmt.Errorf("--dump-page %d: page number out of range", n)
		}
	}
	vm, err := a.load(blob, o)
	if err != nil {
		return err
	}
	if a.cfg.TraceFile != "" {
		tw, err := trace.NewJSONLWriterFile(a.cfg.TraceFile)
		if err != nil {
			return err
		}
		defer func() {
			if err := tw.Close(); err != nil {
				log.Warn(log.CLIModule, "closing trace", "err", err)
			}
		}()
		vm.SetTracer(tw)
	}

	status, err := execute(ctx, vm, o)
	printState(w, vm, pvmtypes.Gas(a.cfg.Gas))
	for _, n := range o.pages {
		page := vm.GetPageDump(uint32(n))
		if page == nil {
			fmt.Fprintf(w, "page %d: unmapped\n", n)
			continue
		}
		fmt.Fprintf(w, "page %d: %x\n", n, page)
	}
	log.Debug(log.CLIModule, "run finished", "status", status, "backend", a.cfg.Backend)
	return err
}

func printState(w io.Writer, vm pvm.Backend, initial pvmtypes.Gas) {
	status := vm.Status()
	fmt.Fprintf(w, "status: %s\n", status)
	switch status {
	case pvmtypes.HOST:
		fmt.Fprintf(w, "host call: %d (%s)\n", vm.ExitParam(), pvmtypes.HostFnToName(vm.ExitParam()))
	case pvmtypes.FAULT:
		fmt.Fprintf(w, "fault address: 0x%x\n", vm.ExitParam())
	}
	fmt.Fprintf(w, "pc: %d\n", vm.PC())
	fmt.Fprintf(w, "gas: %d (used %d)\n", vm.Gas(), initial-vm.Gas())
	fmt.Fprintf(w, "steps: %d\n", vm.Steps())
	for i, r := range vm.Registers().GetAllU64() {
		fmt.Fprintf(w, "r%-2d = 0x%016x\n", i, r)
	}
}
