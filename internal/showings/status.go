package showings

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusInactive  Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOngoing, StatusCompleted, StatusInactive:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsBookable reports whether a showing in this status accepts confirmations.
func (s Status) IsBookable() bool {
	return s == StatusActive || s == StatusOngoing
}

// NextStatus computes a showing's status from wall-clock time. Pure function,
// no side effects.
//
// Transitions are monotonic: ACTIVE -> ONGOING -> COMPLETED. INACTIVE is set
// by an admin and sticky; COMPLETED never reverts. The ONGOING window opens
// leadWindow before the start time and closes at start + duration.
func NextStatus(current Status, startAt time.Time, duration, leadWindow time.Duration, now time.Time) Status {
	if current == StatusInactive || current == StatusCompleted {
		return current
	}

	endAt := startAt.Add(duration)
	switch {
	case now.After(endAt):
		return StatusCompleted
	case now.After(startAt.Add(-leadWindow)):
		return StatusOngoing
	default:
		return StatusActive
	}
}
