package custom_error

import "fmt"

// The assignment engine reports every expected business-rule violation as one
// of the typed errors below. They are detected before any write, so a caller
// receiving one can assume no state changed.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AlreadyAssignedError rejects a checkout of an entity that already carries
// an assignment. The caller must re-read state before trying again.
type AlreadyAssignedError struct {
	ResourceType string
	ResourceID   int
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s %d is already assigned", e.ResourceType, e.ResourceID)
}

// AlreadyUnassignedError rejects a checkin of an entity that carries no
// assignment.
type AlreadyUnassignedError struct {
	ResourceType string
	ResourceID   int
}

func (e *AlreadyUnassignedError) Error() string {
	return fmt.Sprintf("%s %d is not assigned", e.ResourceType, e.ResourceID)
}

// InsufficientSeatsError rejects a seat-count reduction that would require
// freeing more seats than are currently unassigned.
type InsufficientSeatsError struct {
	LicenseID int
	Required  int
	Available int
	Assigned  int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf(
		"license %d: cannot retire %d seat(s), only %d available (%d assigned)",
		e.LicenseID, e.Required, e.Available, e.Assigned,
	)
}

// NotReassignableError rejects a seat checkin when the owning license forbids
// reassignment. The flag is license-level policy, never per seat.
type NotReassignableError struct {
	LicenseID int
	SeatID    int
}

func (e *NotReassignableError) Error() string {
	return fmt.Sprintf("license %d does not allow seat %d to be reassigned", e.LicenseID, e.SeatID)
}

type NotFoundError struct {
	ResourceType string
	ResourceID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.ResourceType, e.ResourceID)
}
