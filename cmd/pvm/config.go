package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jam-duna/jampvm/log"
	"github.com/jam-duna/jampvm/pvm"
)

// Config holds the settings shared by every subcommand. It can be read
// from a JSON file with --config; flags given on the command line win.
type Config struct {
	Backend      string `json:"backend"`
	Gas          uint64 `json:"gas"`
	LogLevel     string `json:"loglevel"`
	LogJSON      bool   `json:"logjson"`
	Modules      string `json:"modules"`
	PoolSize     int    `json:"poolsize"`
	StoreDir     string `json:"storedir"`
	TraceFile    string `json:"tracefile"`
	OTLPEndpoint string `json:"otlpendpoint"`
}

func defaultConfig() Config {
	return Config{
		Backend:  pvm.BackendInterpreter,
		Gas:      10_000_000,
		LogLevel: "info",
		PoolSize: 4,
	}
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(jsonData)
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("poolsize must be at least 1, got %d", c.PoolSize)
	}
	for _, b := range pvm.Backends {
		if b == c.Backend {
			return nil
		}
	}
	return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, pvm.Backends)
}

// loadConfigFile overlays the JSON file at path on c. Keys missing from
// the file keep their current values.
func loadConfigFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func bindConfigFlags(cmd *cobra.Command, c *Config, path *string) {
	f := cmd.PersistentFlags()
	f.StringVar(path, "config", "", "JSON config file")
	f.StringVar(&c.Backend, "backend", c.Backend, "execution backend: interpreter or compiler")
	f.Uint64Var(&c.Gas, "gas", c.Gas, "initial gas")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (trace, debug, info, warn, error)")
	f.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "log in JSON format")
	f.StringVar(&c.Modules, "debug", c.Modules, "comma separated log modules to enable (pvm, pvm_mem, pvm_pool, pvm_store, pvm_cli, pvm_vec)")
	f.IntVar(&c.PoolSize, "pool-size", c.PoolSize, "number of pooled instances")
	f.StringVar(&c.StoreDir, "store", c.StoreDir, "program store directory")
	f.StringVar(&c.TraceFile, "trace", c.TraceFile, "write a JSONL step trace to this file")
	f.StringVar(&c.OTLPEndpoint, "otlp-endpoint", c.OTLPEndpoint, "OTLP/HTTP trace collector URL")
}

// resolveConfig applies the config file and then re-applies every flag
// the user set explicitly.
func resolveConfig(cmd *cobra.Command, c *Config, path string) error {
	if path == "" {
		return c.validate()
	}
	flagged := *c
	if err := loadConfigFile(c, path); err != nil {
		return err
	}
	set := func(name string, apply func()) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("backend", func() { c.Backend = flagged.Backend })
	set("gas", func() { c.Gas = flagged.Gas })
	set("log-level", func() { c.LogLevel = flagged.LogLevel })
	set("log-json", func() { c.LogJSON = flagged.LogJSON })
	set("debug", func() { c.Modules = flagged.Modules })
	set("pool-size", func() { c.PoolSize = flagged.PoolSize })
	set("store", func() { c.StoreDir = flagged.StoreDir })
	set("trace", func() { c.TraceFile = flagged.TraceFile })
	set("otlp-endpoint", func() { c.OTLPEndpoint = flagged.OTLPEndpoint })
	return c.validate()
}
