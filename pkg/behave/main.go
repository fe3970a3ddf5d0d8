package behave

import (
	"os"

	"flowp/internal/cli"
	"flowp/internal/runner"
)

// Main runs the behaviors registered by the program with the command line
// in os.Args and returns the exit code:
//
//	func main() {
//		os.Exit(behave.Main())
//	}
func Main() int {
	return cli.Main(os.Args[1:], cli.Options{Registry: runner.DefaultRegistry})
}
