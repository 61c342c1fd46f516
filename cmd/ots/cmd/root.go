package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/internal/config"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/netlist"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	topLevel    bool
	circuitName string

	// Loaded before every command
	appConfig *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "ots",
	Short: "OpenTraceSPICE - SPICE netlist viewer tools",
	Long: `OpenTraceSPICE (ots) reads SPICE netlists and lays their subcircuits out
on a grid:
  - device and node listings per subcircuit
  - linear and heuristic placement, saved layouts
  - connectivity graphs, nets and airwires

Examples:
  ots info amp.cir                        # List subcircuits and devices
  ots place amp.cir --strategy heuristic  # Place devices
  ots graph amp.cir --dot                 # Connectivity graph in DOT
  ots nets amp.cir --format kicad         # Export nets as a KiCad netlist
  ots hit amp.cir 120 140                 # Which device is under a pixel`,
	Version:           "0.9.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&topLevel, "top-level", false, "read a netlist without .SUBCKT as one circuit")
	rootCmd.PersistentFlags().StringVarP(&circuitName, "circuit", "c", "", "only process the named circuit")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating config: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg
	configPath = path

	if verbose {
		fmt.Fprintf(os.Stderr, "Config: %s\n", path)
	}
	return nil
}

// logger returns the parser logger: debug records on stderr with --verbose,
// nothing otherwise.
func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadCircuits parses filename and keeps the circuit selected by --circuit.
// --top-level forces flat netlists to be read as one circuit; the persisted
// setting applies otherwise.
func loadCircuits(filename string) ([]*circuit.Circuit, error) {
	cfg := netlist.DefaultConfig()
	cfg.TopLevel = topLevel || appConfig.TopLevel

	p, err := netlist.NewParser(nil, netlist.WithConfig(cfg), netlist.WithLogger(logger()))
	if err != nil {
		return nil, err
	}

	circuits, err := p.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error parsing netlist: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Parsed %d circuit(s) from %s\n", len(circuits), filename)
	}
	if len(circuits) == 0 {
		return nil, fmt.Errorf("%s: no circuits found (try --top-level for flat netlists)", filename)
	}
	return selectCircuits(circuits, circuitName)
}

// selectCircuits returns the circuit called name, or all of them when name is
// empty.
func selectCircuits(circuits []*circuit.Circuit, name string) ([]*circuit.Circuit, error) {
	if name == "" {
		return circuits, nil
	}
	for _, c := range circuits {
		if c.Name() == name {
			return []*circuit.Circuit{c}, nil
		}
	}
	return nil, fmt.Errorf("circuit %q not found", name)
}
