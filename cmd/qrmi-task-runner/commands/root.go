package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
	"github.com/qiskit-community/qrmi-go/pkg/qrmi/resources"
)

// pollInterval is how often the task status is checked.
const pollInterval = 1 * time.Second

var (
	qpuName    string
	inputFile  string
	programID  string
	jobRuns    int
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "qrmi-task-runner",
	Short: "Run a task on a quantum resource",
	Long: `qrmi-task-runner - Command to run a task on a quantum resource.

The resource type is resolved from the SLURM_JOB_QPU_RESOURCES and
SLURM_JOB_QPU_TYPES environment variables set by the Slurm plugin. The
task is started, polled every second until it reaches a final state,
and the result is written to --output or stdout. SIGTERM and SIGCONT
(sent by scancel) stop the poll loop and cancel the remote task.

Examples:
  # Run a sampler primitive on an IBM backend
  qrmi-task-runner --qpu-name ibm_kingston --input job.json --program-id sampler

  # Run a Pulser sequence on a Pasqal device
  qrmi-task-runner --qpu-name FRESNEL --input seq.json --job-runs 100 -o out.json
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&qpuName, "qpu-name", "q", "", "QPU resource name")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input file: primitive parameters for IBM resources, Pulser sequence for Pasqal resources")
	rootCmd.Flags().StringVar(&programID, "program-id", "", "primitive to execute (sampler or estimator), required for IBM resources")
	rootCmd.Flags().IntVar(&jobRuns, "job-runs", 0, "number of times the sequence is repeated, required for Pasqal resources")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the result to file instead of stdout")
	rootCmd.MarkFlagRequired("qpu-name")
	rootCmd.MarkFlagRequired("input")
}

func run(cmd *cobra.Command) error {
	// Fail on an unwritable output file before the job runs, not
	// after.
	if outputFile != "" {
		if err := checkOutputFile(outputFile); err != nil {
			return err
		}
	}

	slog.SetLogLoggerLevel(srunLogLevel(os.Getenv("SRUN_DEBUG")))

	qpuType, err := resolveQPUType(qpuName)
	if err != nil {
		return err
	}
	input, err := os.ReadFile(inputFile)
	if err != nil {
		return err
	}
	payload, err := buildPayload(qpuType, string(input), programID, jobRuns)
	if err != nil {
		return err
	}
	res, err := resources.New(qpuName, qpuType)
	if err != nil {
		return err
	}

	// scancel wakes job steps with SIGCONT and follows with SIGTERM;
	// either stops the poll loop so the remote task gets cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGCONT)
	defer stop()

	return runTask(ctx, cmd, res, payload)
}

// runTask starts the task, polls it to a final state and writes the
// result. The task is always stopped on the way out, cancelling it on
// the service if it is still running.
func runTask(ctx context.Context, cmd *cobra.Command, res qrmi.QuantumResource, payload qrmi.Payload) error {
	taskID, err := res.TaskStart(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to start task: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task ID: %s\n", taskID)

	// Cleanup runs with a fresh context: the loop context is already
	// cancelled when a signal stopped the poll.
	defer func() {
		if err := res.TaskStop(context.Background(), taskID); err != nil {
			slog.Warn("failed to stop task", "task", taskID, "error", err)
		}
	}()

	succeeded := false
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
poll:
	for {
		status, err := res.TaskStatus(ctx, taskID)
		switch {
		case err != nil && ctx.Err() != nil:
			break poll
		case err != nil:
			slog.Warn("failed to get task status, retrying", "task", taskID, "error", err)
		case status == qrmi.TaskCompleted:
			succeeded = true
			break poll
		case status.Final():
			fmt.Fprintf(cmd.ErrOrStderr(), "Task %s finished as %s\n", taskID, status)
			break poll
		}

		select {
		case <-ctx.Done():
			break poll
		case <-ticker.C:
		}
	}

	if !succeeded {
		return nil
	}
	result, err := res.TaskResult(context.Background(), taskID)
	if err != nil {
		return fmt.Errorf("failed to get result: %w", err)
	}
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(result.Value), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote output to %s.\n", outputFile)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result.Value)
	}
	return nil
}

// resolveQPUType looks up the resource type of a QPU in the Slurm
// environment handoff.
func resolveQPUType(name string) (qrmi.ResourceType, error) {
	names := os.Getenv("SLURM_JOB_QPU_RESOURCES")
	if names == "" {
		return "", fmt.Errorf("SLURM_JOB_QPU_RESOURCES is not set, no QPU resources are configured")
	}
	types := os.Getenv("SLURM_JOB_QPU_TYPES")
	if types == "" {
		return "", fmt.Errorf("SLURM_JOB_QPU_TYPES is not set, no QPU resources are configured")
	}
	typ, ok := findQPUType(strings.Split(names, ","), strings.Split(types, ","), name)
	if !ok {
		return "", fmt.Errorf("%s is not specified in the --qpu option of this job", name)
	}
	if !typ.Valid() {
		return "", fmt.Errorf("resource type %s is not supported [supported types: %s, %s, %s]",
			typ, qrmi.ResourceDirectAccess, qrmi.ResourceQiskitRuntimeService, qrmi.ResourcePasqalCloud)
	}
	return typ, nil
}

func findQPUType(names, types []string, name string) (qrmi.ResourceType, bool) {
	for i, n := range names {
		if n == name && i < len(types) {
			return qrmi.ResourceType(types[i]), true
		}
	}
	return "", false
}

// buildPayload assembles the task payload for the resource type from
// the command line arguments.
func buildPayload(typ qrmi.ResourceType, input, programID string, jobRuns int) (qrmi.Payload, error) {
	switch typ {
	case qrmi.ResourceDirectAccess, qrmi.ResourceQiskitRuntimeService:
		if programID == "" {
			return nil, fmt.Errorf("missing argument: --program-id is required for %s resources", typ)
		}
		return qrmi.QiskitPrimitive{Input: input, ProgramID: programID}, nil
	case qrmi.ResourcePasqalCloud:
		if jobRuns <= 0 {
			return nil, fmt.Errorf("missing argument: --job-runs is required for %s resources", typ)
		}
		return qrmi.PasqalCloud{Sequence: input, JobRuns: jobRuns}, nil
	}
	return nil, fmt.Errorf("unknown resource type %q", typ)
}

// checkOutputFile verifies the output file can be created and
// truncated, preventing a write error after a long job execution.
func checkOutputFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%s cannot be created: %w", path, err)
	}
	return f.Close()
}

// srunLogLevel maps the SRUN_DEBUG value set by srun to a log level:
// --quiet lowers it to errors, --verbose and beyond raise it to debug.
func srunLogLevel(srunDebug string) slog.Level {
	level, err := strconv.Atoi(srunDebug)
	if err != nil {
		return slog.LevelInfo
	}
	switch {
	case level == 2:
		return slog.LevelError
	case level >= 4:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
