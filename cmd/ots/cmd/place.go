package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/layoutfile"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/placement"
)

var (
	strategyName string
	layoutIn     string
	layoutOut    string
	rotateRefs   []string
)

var placeCmd = &cobra.Command{
	Use:   "place <netlist>",
	Short: "Place the devices of each circuit on the grid",
	Long: `Run a placement strategy over every circuit and print device positions.

A saved layout (--layout) is applied after placement; devices it does not
mention keep their computed position. --save writes the final placement of a
single circuit.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)
	placeCmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "placement strategy: linear, heuristic, graph (default from config)")
	placeCmd.Flags().StringVar(&layoutIn, "layout", "", "apply a saved layout file")
	placeCmd.Flags().StringVar(&layoutOut, "save", "", "save the resulting layout to a file")
	placeCmd.Flags().StringSliceVar(&rotateRefs, "rotate", nil, "rotate a device clockwise by 90 degrees after placement (repeatable)")
}

func runPlace(cmd *cobra.Command, args []string) error {
	circuits, err := loadCircuits(args[0])
	if err != nil {
		return err
	}
	if layoutOut != "" && len(circuits) != 1 {
		return fmt.Errorf("--save needs exactly one circuit, got %d (use --circuit)", len(circuits))
	}

	strategy := appConfig.PlacementStrategy()
	if strategyName != "" {
		strategy, err = placement.ParseStrategy(strategyName)
		if err != nil {
			return err
		}
	}

	var saved *layoutfile.Layout
	if layoutIn != "" {
		saved, err = layoutfile.ReadFile(layoutIn)
		if err != nil {
			return err
		}
	}

	rotated := make(map[string]bool)
	for i, c := range circuits {
		if i > 0 {
			fmt.Println()
		}
		if err := placeCircuit(c, strategy, saved, rotated); err != nil {
			return err
		}
		showPlacement(c, strategy)
	}
	for _, ref := range rotateRefs {
		if !rotated[ref] {
			fmt.Printf("Warning: --rotate %s matches no device\n", ref)
		}
	}

	if layoutOut != "" {
		if err := layoutfile.FromCircuit(circuits[0]).WriteFile(layoutOut); err != nil {
			return err
		}
		fmt.Printf("\nLayout saved to %s\n", layoutOut)
	}
	return nil
}

// placeCircuit places c, applies the saved layout and the --rotate list, and
// marks every rotated reference in rotated.
func placeCircuit(c *circuit.Circuit, strategy placement.Strategy, saved *layoutfile.Layout, rotated map[string]bool) error {
	if _, err := placement.Place(c, strategy); err != nil {
		if errors.Is(err, placement.ErrNotImplemented) {
			return fmt.Errorf("circuit %s: %s placement: %w", c.Name(), strategy, err)
		}
		return err
	}

	if saved != nil && saved.Circuit == c.Name() {
		missing := saved.Apply(c)
		for _, ref := range missing {
			fmt.Printf("Warning: layout entry %s matches no device in %s\n", ref, c.Name())
		}
		if verbose {
			fmt.Printf("Applied layout %s (%d entries)\n", layoutIn, len(saved.Devices))
		}
	}

	for _, ref := range rotateRefs {
		i, ok := c.FindDevice(ref)
		if !ok {
			continue
		}
		if err := c.RotateDevice(i, true); err != nil {
			return err
		}
		rotated[ref] = true
	}
	if len(rotateRefs) > 0 {
		c.UpdateBoundingBox()
	}
	return nil
}

func showPlacement(c *circuit.Circuit, strategy placement.Strategy) {
	fmt.Printf("Circuit: %s (%s placement)\n", c.Name(), strategy)
	for _, d := range c.Devices() {
		fmt.Printf("  %-8s at %-8v rot %-3v box %v\n", d.Ref(), d.Position(), d.Rotation(), d.Box())
	}
	fmt.Printf("  Bounding box: %v\n", c.BoundingBox())
}
