package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the day/month/year format the scheduling backend expects.
const DateLayout = "02/01/2006"

// InputLayout parses user-supplied dates; day and month may omit the
// leading zero ("5/3/2026").
const InputLayout = "2/1/2006"

// weekdayCodes is indexed Monday-first (Mon=0 ... Sun=6), the same order the
// booking site's own script uses.
var weekdayCodes = [7]string{"SEG", "TER", "QUA", "QUI", "SEX", "SAB", "DOM"}

// MondayIndex maps a time.Weekday onto the Monday-first enumeration.
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeekdayCode returns the three-letter code for wd.
func WeekdayCode(wd time.Weekday) string {
	return weekdayCodes[MondayIndex(wd)]
}

// ParseWeekdayCode accepts a three-letter code ("DOM") case-insensitively.
func ParseWeekdayCode(code string) (time.Weekday, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for i, wc := range weekdayCodes {
		if wc == c {
			return time.Weekday((i + 1) % 7), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday code %q", code)
}

// TargetDate is one calendar day to probe. Only the date part of t is used.
type TargetDate struct {
	t time.Time
}

func NewTargetDate(year int, month time.Month, day int) TargetDate {
	return TargetDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) TargetDate {
	y, m, d := t.Date()
	return NewTargetDate(y, m, d)
}

func (d TargetDate) Time() time.Time       { return d.t }
func (d TargetDate) Weekday() time.Weekday { return d.t.Weekday() }
func (d TargetDate) WeekdayCode() string   { return WeekdayCode(d.t.Weekday()) }
func (d TargetDate) IsZero() bool          { return d.t.IsZero() }

// String renders the date as dd/mm/yyyy.
func (d TargetDate) String() string { return d.t.Format(DateLayout) }

func (d TargetDate) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *TargetDate) UnmarshalText(b []byte) error {
	t, err := time.Parse(InputLayout, strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// ProbeRequest is the tuple sent upstream for one date.
type ProbeRequest struct {
	Unit    string
	Service string
	Date    TargetDate
}

// Form encodes the request as the four ordered dados[] fields:
// unit, service, date, weekday code.
func (r ProbeRequest) Form() url.Values {
	return url.Values{
		"dados[]": {r.Unit, r.Service, r.Date.String(), r.Date.WeekdayCode()},
	}
}

type Verdict int

const (
	NoVacancy Verdict = iota
	NotYetReleased
	Available
)

func (v Verdict) String() string {
	switch v {
	case NotYetReleased:
		return "not_yet_released"
	case Available:
		return "available"
	default:
		return "no_vacancy"
	}
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Outcome is the interpreted business meaning of one probe.
type Outcome struct {
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
}

func (o Outcome) Available() bool { return o.Verdict == Available }

// DateResult records what happened to one date within a round.
type DateResult struct {
	Date    TargetDate `json:"date"`
	Outcome *Outcome   `json:"outcome,omitempty"`
	Error   string     `json:"error,omitempty"`
	Alerted bool       `json:"alerted"`
}

// RoundResult summarizes one pass over the selected dates.
type RoundResult struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Found      bool         `json:"found"`
	Dates      []DateResult `json:"dates"`
}
