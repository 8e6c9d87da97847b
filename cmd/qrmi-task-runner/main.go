// Package main provides the qrmi-task-runner command.
//
// Usage:
//
//	qrmi-task-runner --qpu-name <name> --input <file> [flags]
//
// The command runs one task on a quantum resource configured through
// Slurm: the resource type is resolved from SLURM_JOB_QPU_RESOURCES
// and SLURM_JOB_QPU_TYPES, the task is started, its status polled
// until a final state, and the result written to --output or stdout.
package main

import (
	"fmt"
	"os"

	"github.com/qiskit-community/qrmi-go/cmd/qrmi-task-runner/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
