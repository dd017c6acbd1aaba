// Command actuate runs the actuate demo app and reports version information.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/actuate/cmd/actuate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
