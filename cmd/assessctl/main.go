// assessctl conduce evaluaciones de burnout desde la terminal.
//
// Usage:
//
//	assessctl questions
//	assessctl score "<text>"
//	assessctl run [--db=<path>] [--user=<id>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
