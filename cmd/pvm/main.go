// Command pvm runs, inspects and checks PVM programs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm/programstore"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg        Config
	configPath string
	stopTrace  func()
	store      *programstore.Store
}

// openStore opens the program store on first use.
func (a *app) openStore() (*programstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := programstore.Open(a.cfg.StoreDir, programstore.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn(log.CLIModule, "closing program store", "err", err)
		}
		a.store = nil
	}
	if a.stopTrace != nil {
		a.stopTrace()
		a.stopTrace = nil
	}
}

func initLogging(c *Config) error {
	if err := log.InitLogger(c.LogLevel, c.LogJSON); err != nil {
		return err
	}
	if c.Modules != "" {
		log.EnableModules(c.Modules)
	}
	return nil
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: defaultConfig()}
	rootCmd := &cobra.Command{
		Use:           "pvm",
		Short:         "JAM PVM runner and inspection tools",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &a.cfg, a.configPath); err != nil {
				return err
			}
			if err := initLogging(&a.cfg); err != nil {
				return err
			}
			log.Debug(log.CLIModule, "config", "cfg", a.cfg.String())
			if a.cfg.OTLPEndpoint != "" {
				stop, err := startTelemetry(cmd.Context(), a.cfg.OTLPEndpoint)
				if err != nil {
					return err
				}
				a.stopTrace = stop
			}
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	bindConfigFlags(rootCmd, &a.cfg, &a.configPath)

	rootCmd.AddCommand(
		newRunCmd(a),
		newDisasmCmd(a),
		newBlockGasCmd(a),
		newProfileCmd(a),
		newBenchCmd(a),
		newTraceDiffCmd(a),
		newVectorsCmd(a),
		newStoreCmd(a),
	)
	return rootCmd, a
}

func main() {
	rootCmd, a := newRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
