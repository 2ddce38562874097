// Package entity defines the domain models for the returns feature.
package entity

import "time"

// DateLayout is the textual date format accepted and produced by the API.
const DateLayout = "2006-01-02"

// DateRange is a validated pair of calendar dates with Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartString returns Start formatted as YYYY-MM-DD.
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns End formatted as YYYY-MM-DD.
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }

// String renders the range as "start..end".
func (r DateRange) String() string { return r.StartString() + ".." + r.EndString() }
