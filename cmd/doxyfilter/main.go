// Command doxyfilter strips annotation macros from C sources so doxygen
// can parse the declarations they wrap. It is meant to be used as a
// doxygen INPUT_FILTER: the transformed file is written to stdout.
package main

import (
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], DefaultDeps()))
}
