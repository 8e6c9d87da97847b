// Package main provides the qrmi-config command.
//
// Usage:
//
//	qrmi-config validate <file>
//	qrmi-config resources <file>
//
// The command validates a qrmi_config.json (or YAML) file and lists
// the quantum resources it defines.
package main

import (
	"fmt"
	"os"

	"github.com/qiskit-community/qrmi-go/cmd/qrmi-config/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
