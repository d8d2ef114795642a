package movies

import "time"

type Status string

const (
	StatusComingSoon      Status = "COMING_SOON"
	StatusTicketAvailable Status = "TICKET_AVAILABLE"
	StatusNowShowing      Status = "NOW_SHOWING"
	StatusEnded           Status = "ENDED"
	StatusTrending        Status = "TRENDING"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusComingSoon, StatusTicketAvailable, StatusNowShowing, StatusEnded, StatusTrending:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// DeriveStatus recomputes a movie's status from the full set of its showings'
// dates relative to today. It is a pure function: same inputs, same output.
// The status is always recomputed from scratch, never patched incrementally,
// so a missed or doubled run cannot make it drift.
//
// Precedence: a showing today beats future showings, which beat past ones.
// TRENDING is an admin-set value; recomputation overwrites it.
func DeriveStatus(showDates []time.Time, today time.Time) Status {
	if len(showDates) == 0 {
		return StatusComingSoon
	}

	var hasToday, hasFuture, hasPast bool
	for _, d := range showDates {
		switch {
		case sameDay(d, today):
			hasToday = true
		case d.After(today):
			hasFuture = true
		default:
			hasPast = true
		}
	}

	switch {
	case hasToday:
		return StatusNowShowing
	case hasFuture:
		return StatusTicketAvailable
	case hasPast:
		return StatusEnded
	}
	return StatusComingSoon
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
