// Command gvctl signs in to the GreenVista API and keeps the local session
// within its expiry window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
