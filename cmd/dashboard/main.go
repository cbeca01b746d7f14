// Command dashboard is a terminal front end for the Baseline Academy API.
package main

import (
	"fmt"
	"os"

	"baseline_academy/internal/client"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", client.Message(err))
		os.Exit(1)
	}
}
