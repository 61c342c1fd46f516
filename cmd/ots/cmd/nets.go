package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/nets"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/placement"
)

var netsFormat string

var netsCmd = &cobra.Command{
	Use:   "nets <netlist>",
	Short: "List nets and airwires",
	Long: `Extract the nets of each circuit after placement.

Formats:
  text   nets, their pins and airwire segments (default)
  json   JSON netlist
  kicad  KiCad netlist s-expression`,
	Args: cobra.ExactArgs(1),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
	netsCmd.Flags().StringVarP(&netsFormat, "format", "f", "text", "output format: text, json, kicad")
}

func runNets(cmd *cobra.Command, args []string) error {
	switch netsFormat {
	case "text", "json", "kicad":
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, kicad)", netsFormat)
	}

	circuits, err := loadCircuits(args[0])
	if err != nil {
		return err
	}

	for i, c := range circuits {
		if _, err := placement.Place(c, appConfig.PlacementStrategy()); err != nil {
			return fmt.Errorf("circuit %s: %w", c.Name(), err)
		}
		nl := nets.Extract(c)

		switch netsFormat {
		case "json":
			data, err := nl.ExportJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		case "kicad":
			fmt.Print(nl.ExportKiCad())
		default:
			if i > 0 {
				fmt.Println()
			}
			showNets(nl)
		}
	}
	return nil
}

func showNets(nl *nets.Netlist) {
	fmt.Printf("Circuit: %s\n", nl.Circuit)
	fmt.Printf("  Nets: %d (%d with more than one pin)\n", nl.NetCount(), nl.MultiPinNetCount())
	for _, n := range nl.Nets {
		label := n.Name
		if n.Ground {
			label += " (ground)"
		}
		fmt.Printf("  Net %d: %s\n", n.ID, label)
		for _, p := range n.Pins {
			fmt.Printf("    %s.%d at %v\n", p.Device, p.Pin, p.Position)
		}
	}

	wires := nl.Airwires()
	fmt.Printf("  Airwires: %d\n", len(wires))
	if verbose {
		for _, s := range wires {
			fmt.Printf("    %v -> %v\n", s.From, s.To)
		}
	}
}
