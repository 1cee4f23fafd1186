package model

// StatusKey is the machine key of a command status. The transition logic below
// operates on keys only; CommandStatus rows carry the display side.
type StatusKey string

const (
	StatusOpen     StatusKey = "OPEN"
	StatusPaying   StatusKey = "PAYING"
	StatusClosed   StatusKey = "CLOSED"
	StatusCanceled StatusKey = "CANCELED"
)

// AllStatusKeys lists every known key, in lifecycle order.
var AllStatusKeys = []StatusKey{StatusOpen, StatusPaying, StatusClosed, StatusCanceled}

func (k StatusKey) Valid() bool {
	switch k {
	case StatusOpen, StatusPaying, StatusClosed, StatusCanceled:
		return true
	}
	return false
}

// transitions is the complete directed edge set of the command lifecycle.
// There is no path back to OPEN and no self-transition.
var transitions = map[StatusKey][]StatusKey{
	StatusOpen:   {StatusPaying, StatusCanceled},
	StatusPaying: {StatusClosed, StatusCanceled},
}

// CanTransition reports whether a command may move from current to target.
// Pure function: no state, no side effects.
func CanTransition(current, target StatusKey) bool {
	for _, t := range transitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// CommandStatus is reference data: one persisted row per machine key, carrying
// the display name shown on tickets and screens. The state machine never
// reads these rows; services resolve them by key when persisting a change.
type CommandStatus struct {
	ID       uint      `gorm:"primaryKey"`
	Key      StatusKey `gorm:"type:varchar(20);uniqueIndex;not null"`
	Name     string    `gorm:"not null"`
	AuditFields
}
