// Package faults defines the typed error taxonomy returned by the core
// services. Every rejected mutation carries the specific fact an operator
// needs to resolve it, never a generic failure.
package faults

import (
	"fmt"
	"strings"
)

// ValidationError indicates bad input shape or values (blank name, empty
// unit set, inverted period).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf constructs a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError indicates a uniqueness or disjointness violation. For unit
// double-assignment, UnitIDs carries the overlapping unit identifiers.
type ConflictError struct {
	Msg     string
	UnitIDs []string
}

func (e *ConflictError) Error() string {
	if len(e.UnitIDs) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.UnitIDs, ", "))
}

// Conflictf constructs a ConflictError with a formatted message.
func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError indicates a transition attempted from a terminal or
// disallowed state.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidStatef constructs an InvalidStateError with a formatted message.
func InvalidStatef(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionFailedError indicates the completion gate rejected a
// completion or export.
type PreconditionFailedError struct {
	Msg string
}

func (e *PreconditionFailedError) Error() string { return e.Msg }

// Preconditionf constructs a PreconditionFailedError with a formatted message.
func Preconditionf(format string, args ...any) *PreconditionFailedError {
	return &PreconditionFailedError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NotFound constructs a NotFoundError for the given entity kind and id.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// UpstreamUnavailableError indicates an external dependency (unit
// directory, meter registry) failed or timed out. It is distinguishable
// from "not complete" so progress callers never mistake an outage for
// missing readings.
type UpstreamUnavailableError struct {
	Upstream string
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Upstream, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamUnavailableError for the named dependency.
func Upstream(upstream string, err error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Upstream: upstream, Err: err}
}

// ExportFailedError indicates the invoicing service rejected or failed an
// export after the gate had already passed. Cycle and assignment state are
// left unchanged when this is returned.
type ExportFailedError struct {
	CycleID string
	Err     error
}

func (e *ExportFailedError) Error() string {
	return fmt.Sprintf("export of cycle %s failed: %v", e.CycleID, e.Err)
}

func (e *ExportFailedError) Unwrap() error { return e.Err }

// ExportFailed wraps err as an ExportFailedError for the given cycle.
func ExportFailed(cycleID string, err error) *ExportFailedError {
	return &ExportFailedError{CycleID: cycleID, Err: err}
}
