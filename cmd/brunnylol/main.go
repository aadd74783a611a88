// Command brunnylol runs the bookmark redirector.
package main

import (
	"os"

	"github.com/jrodal98/brunnylol/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
