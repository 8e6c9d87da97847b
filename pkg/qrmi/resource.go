package qrmi

import (
	"context"
	"fmt"
)

// TaskStatus is the state of a task started on a quantum resource.
type TaskStatus int

const (
	// TaskQueued means the task is waiting to run.
	TaskQueued TaskStatus = iota

	// TaskRunning means the task is executing.
	TaskRunning

	// TaskCompleted means the task finished successfully.
	TaskCompleted

	// TaskFailed means the task finished with an error.
	TaskFailed

	// TaskCancelled means the task was cancelled.
	TaskCancelled
)

// Final reports whether the status is terminal.
func (s TaskStatus) Final() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s TaskStatus) String() string {
	switch s {
	case TaskQueued:
		return "queued"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// Payload is the input of a task. Implementations are
// [QiskitPrimitive] and [PasqalCloud]; a resource rejects payload
// types it does not support.
type Payload interface {
	isPayload()
}

// QiskitPrimitive is the payload of an IBM primitive execution.
type QiskitPrimitive struct {
	// Input is the primitive input document, following the
	// EstimatorV2/SamplerV2 schema.
	Input string

	// ProgramID is "sampler" or "estimator".
	ProgramID string
}

func (QiskitPrimitive) isPayload() {}

// PasqalCloud is the payload of a Pasqal sequence execution.
type PasqalCloud struct {
	// Sequence is the serialized Pulser sequence.
	Sequence string

	// JobRuns is the number of runs to execute.
	JobRuns int
}

func (PasqalCloud) isPayload() {}

// TaskResult is the result document of a completed task.
type TaskResult struct {
	// Value is the raw result, typically JSON.
	Value string
}

// Target describes the resource a task runs on, typically a JSON
// document combining backend configuration and properties. Primitives
// use it to transpile circuits for the target hardware.
type Target struct {
	Value string
}

// QuantumResource is the uniform interface over quantum computing
// resources.
//
// The resource identity (backend name, endpoints, credentials) is
// bound at construction from resource-scoped environment variables.
// Task IDs returned by TaskStart are passed to the other task
// operations.
type QuantumResource interface {
	// IsAccessible reports whether the resource is reachable and
	// accepting work.
	IsAccessible(ctx context.Context) (bool, error)

	// Acquire obtains the right to use the resource and returns an
	// acquisition token. Providers without a session concept return a
	// fresh dummy token.
	Acquire(ctx context.Context) (string, error)

	// Release gives up an acquisition obtained by Acquire.
	Release(ctx context.Context, acquisitionToken string) error

	// TaskStart submits a task and returns its ID.
	TaskStart(ctx context.Context, payload Payload) (string, error)

	// TaskStop cancels the task if it is still running and removes it
	// from the service.
	TaskStop(ctx context.Context, taskID string) error

	// TaskStatus returns the current status of a task.
	TaskStatus(ctx context.Context, taskID string) (TaskStatus, error)

	// TaskResult returns the result of a completed task. It fails for
	// running, failed and cancelled tasks.
	TaskResult(ctx context.Context, taskID string) (TaskResult, error)

	// Target returns the target description of the resource.
	Target(ctx context.Context) (Target, error)

	// Metadata returns implementation-specific metadata.
	Metadata() map[string]string
}
