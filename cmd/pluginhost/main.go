// Command pluginhost loads native plugins and calls the functions they
// publish.
package main

import (
	"fmt"
	"os"
)

// Set with -ldflags at build time.
var version = "dev"

func main() {
	h := newHost()
	err := newRootCmd(h).Execute()
	if cerr := h.shutdown(); cerr != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
