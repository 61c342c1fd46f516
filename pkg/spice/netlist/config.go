package netlist

import (
	"fmt"
	"strings"
)

// Config controls how netlists are turned into circuits.
type Config struct {
	// Flat netlists
	TopLevel     bool   // Parse a file without .SUBCKT as one circuit (default: false)
	TopLevelName string // Circuit name when the title line is empty (default: "top")

	// Node handling
	LowerCaseNodes bool // Fold node names to lower case (default: true)
}

// DefaultConfig returns the configuration used by NewParser
func DefaultConfig() *Config {
	return &Config{
		TopLevel:       false,
		TopLevelName:   "top",
		LowerCaseNodes: true,
	}
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.TopLevelName == "" {
		c.TopLevelName = "top"
	}
	if strings.ContainsAny(c.TopLevelName, " \t\r\n") {
		return fmt.Errorf("netlist: top-level name %q contains whitespace", c.TopLevelName)
	}
	return nil
}
