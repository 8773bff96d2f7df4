// Command localbase is the command-line front end of the localbase
// emulator.
package main

import "github.com/mesh-intelligence/localbase/internal/cli"

func main() {
	cli.Execute()
}
