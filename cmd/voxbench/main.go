package main

import (
	cmd "github.com/mwiater/voxbench/internal/cli"
)

// main starts the voxbench CLI application by delegating to the
// cobra root command defined in the voxbench package.
func main() {
	cmd.Execute()
}
