// apiconv CLI - convert API collections between Postman, Insomnia and Thunder Client
package main

import (
	"os"

	"github.com/getmockd/apiconv/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	return cli.Run()
}
