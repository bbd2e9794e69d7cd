package common

import "fmt"

// FleetErrType classifies orchestration failures.
type FleetErrType uint32

const (
	// Configuration is missing or invalid CLI input.
	Configuration FleetErrType = iota
	// PoolExhausted means there are more hosts than identities in the pool.
	PoolExhausted
	// TemplateMismatch means a substitution target is absent from the
	// baseline template.
	TemplateMismatch
	// UnknownAction is an unrecognized lifecycle verb.
	UnknownAction
	// RemoteExecution is a per-host failure of a fanned-out command.
	RemoteExecution
)

// FleetErr ...
type FleetErr struct {
	errType FleetErrType
	detail  string
}

// NewFleetErr ...
func NewFleetErr(errType FleetErrType, detail string) FleetErr {
	return FleetErr{
		errType: errType,
		detail:  detail,
	}
}

// Error ...
func (e FleetErr) Error() string {
	m := ""
	switch e.errType {
	case Configuration:
		m = "Configuration"
	case PoolExhausted:
		m = "Pool Exhausted"
	case TemplateMismatch:
		m = "Template Mismatch"
	case UnknownAction:
		m = "Unknown Action"
	case RemoteExecution:
		m = "Remote Execution"
	}
	return fmt.Sprintf("%s, %s", m, e.detail)
}

// Is checks the type of a FleetErr.
func Is(err error, t FleetErrType) bool {
	fleetErr, ok := err.(FleetErr)
	return ok && fleetErr.errType == t
}
