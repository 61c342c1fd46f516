package netlist

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SPICELexer splits one logical netlist line into tokens.
// Dot keywords are case-insensitive; everything else is a whitespace
// separated word.
var SPICELexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},

	// Block keywords
	{Name: "Subckt", Pattern: `(?i)\.subckt\b`},
	{Name: "Ends", Pattern: `(?i)\.ends\b`},
	{Name: "Model", Pattern: `(?i)\.model\b`},

	// Any other control line (.END, .TRAN, .INCLUDE ...)
	{Name: "Directive", Pattern: `\.[A-Za-z][^ \t\r]*`},

	{Name: "Word", Pattern: `[^ \t\r]+`},
})
