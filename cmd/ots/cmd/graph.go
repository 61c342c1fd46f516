package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var graphDOT bool

var graphCmd = &cobra.Command{
	Use:   "graph <netlist>",
	Short: "Show the node connectivity graph",
	Long: `Print the connectivity graph of each circuit: two nodes are connected
when a device touches both. Ground is left out.

With --dot the graph is written in GraphViz DOT syntax.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().BoolVar(&graphDOT, "dot", false, "output GraphViz DOT")
}

func runGraph(cmd *cobra.Command, args []string) error {
	circuits, err := loadCircuits(args[0])
	if err != nil {
		return err
	}

	for i, c := range circuits {
		g := c.ConnectivityGraph()

		if graphDOT {
			data, err := g.MarshalDOT()
			if err != nil {
				return fmt.Errorf("circuit %s: %w", c.Name(), err)
			}
			fmt.Println(string(data))
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("Circuit: %s\n", c.Name())
		fmt.Printf("  Nodes: %d  Edges: %d\n", g.Order(), g.Size())
		for _, e := range g.EdgeList() {
			fmt.Printf("    %s -- %s\n", e[0], e[1])
		}
		comps := g.Components()
		fmt.Printf("  Components: %d\n", len(comps))
		for _, cc := range comps {
			fmt.Printf("    {%s}\n", strings.Join(cc, ", "))
		}
	}
	return nil
}
