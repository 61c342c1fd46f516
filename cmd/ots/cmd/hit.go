package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/placement"
)

var (
	hitGrid      int
	hitTolerance int
)

var hitCmd = &cobra.Command{
	Use:   "hit <netlist> <x> <y>",
	Short: "Find the device at a pixel position",
	Long: `Place each circuit with the configured strategy and report the first
device whose box, scaled to pixels and grown by the tolerance, contains the
point (x, y).`,
	Args: cobra.ExactArgs(3),
	RunE: runHit,
}

func init() {
	rootCmd.AddCommand(hitCmd)
	hitCmd.Flags().IntVar(&hitGrid, "grid", 0, "pixels per grid unit (default from config)")
	hitCmd.Flags().IntVar(&hitTolerance, "tolerance", -1, "hit tolerance in pixels (default from config)")
}

func runHit(cmd *cobra.Command, args []string) error {
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q: %w", args[1], err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q: %w", args[2], err)
	}

	spacing := appConfig.GridSpacing
	if hitGrid > 0 {
		spacing = hitGrid
	}
	tolerance := appConfig.HitTolerance
	if hitTolerance >= 0 {
		tolerance = hitTolerance
	}

	circuits, err := loadCircuits(args[0])
	if err != nil {
		return err
	}

	pt := grid.Pt(x, y)
	hits := 0
	for _, c := range circuits {
		if _, err := placement.Place(c, appConfig.PlacementStrategy()); err != nil {
			return fmt.Errorf("circuit %s: %w", c.Name(), err)
		}

		i, ok := c.HitTest(pt, spacing, tolerance)
		if !ok {
			continue
		}
		hits++
		d := c.Device(i)
		fmt.Printf("%s: %s %s at %v, pixels %v\n", c.Name(), d.Ref(), d.Description(), d.Position(), c.PixelBox(i, spacing))
	}

	if hits == 0 {
		fmt.Printf("No device at %v\n", pt)
	}
	return nil
}
