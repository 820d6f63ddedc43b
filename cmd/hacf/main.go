// HACF: adaptive sequencing, memory and evaluation engine.
//
// Usage:
//
//	hacf serve                 # Start MCP server (stdio transport)
//	hacf plan -m '{...}'       # Plan the stage sequence for a project
//	hacf catalog networks      # List the transition networks
package main

import (
	"os"

	"github.com/IlumCI/HACF/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
