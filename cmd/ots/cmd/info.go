package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
)

var infoCmd = &cobra.Command{
	Use:   "info <netlist> [device]",
	Short: "Show netlist information",
	Long: `Display the subcircuits of a SPICE netlist.

Without device argument: lists nodes and devices of every circuit
With device argument: shows details for that device (e.g. R1)`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	circuits, err := loadCircuits(filename)
	if err != nil {
		return err
	}

	if len(args) >= 2 {
		return showDeviceDetails(circuits, args[1])
	}

	fmt.Printf("Netlist: %s\n", filename)
	fmt.Printf("Circuits: %d\n", len(circuits))
	for _, c := range circuits {
		fmt.Println()
		showCircuitSummary(c)
	}
	return nil
}

func showCircuitSummary(c *circuit.Circuit) {
	fmt.Printf("Circuit: %s\n", c.Name())
	if ext := c.ExternalNodes(); len(ext) > 0 {
		fmt.Printf("  External nodes: %s\n", strings.Join(ext, ", "))
	}
	fmt.Printf("  Nodes: %s\n", strings.Join(c.Nodes(), ", "))
	fmt.Printf("  Devices: %d\n", c.Len())

	for _, d := range c.Devices() {
		fmt.Printf("    %-8s %-24s %s\n", d.Ref(), strings.Join(d.Nodes(), " "), d.Summary())
	}
}

func showDeviceDetails(circuits []*circuit.Circuit, ref string) error {
	found := false
	for _, c := range circuits {
		i, ok := c.FindDevice(ref)
		if !ok {
			continue
		}
		found = true
		d := c.Device(i)

		fmt.Printf("Device: %s (circuit %s)\n", d.Ref(), c.Name())
		fmt.Printf("  Type: %s\n", d.Description())
		fmt.Printf("  Summary: %s\n", d.Summary())
		fmt.Println("  Nodes:")
		for n, node := range d.Nodes() {
			fmt.Printf("    %d: %s (offset %v)\n", n, node, d.RelativeNodeOffset(n))
		}
		showDeviceKind(d)
		fmt.Println()
	}
	if !found {
		return fmt.Errorf("device %q not found", ref)
	}
	return nil
}

func showDeviceKind(d device.Device) {
	switch v := d.(type) {
	case *device.Transistor:
		if v.Channel != device.ChannelUnknown {
			fmt.Printf("  Channel: %s\n", v.Channel)
		}
		if v.Model != "" {
			fmt.Printf("  Model: %s\n", v.Model)
		}
	case *device.DependentSource:
		if v.Behavioral {
			fmt.Printf("  Expression: %s\n", v.Expression)
		} else {
			fmt.Printf("  Control nodes: %s, %s\n", v.Control1, v.Control2)
		}
	case *device.ExternalPin:
		fmt.Println("  External pin")
	}
}
