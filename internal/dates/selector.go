package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/slotwatch/internal/domain"
)

var ErrInvalidDateFormat = errors.New("invalid date format")

const (
	DefaultWindowDays = 10
	DefaultExcluded   = time.Sunday
)

// Selector produces the ordered dates probed in one round.
type Selector struct {
	Now        func() time.Time
	Location   *time.Location
	WindowDays int
	Excluded   time.Weekday
}

func NewSelector(loc *time.Location, windowDays int, excluded time.Weekday) *Selector {
	if loc == nil {
		loc = time.Local
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Selector{
		Now:        time.Now,
		Location:   loc,
		WindowDays: windowDays,
		Excluded:   excluded,
	}
}

// Select returns explicit verbatim (in caller order) when it is non-empty,
// otherwise the default window.
func (s *Selector) Select(explicit []string) ([]domain.TargetDate, error) {
	if len(explicit) > 0 {
		return ParseList(explicit)
	}
	return s.Window(), nil
}

// Window generates WindowDays consecutive days starting tomorrow and drops
// the excluded weekday.
func (s *Selector) Window() []domain.TargetDate {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	today := domain.DateOf(now().In(loc)).Time()

	out := make([]domain.TargetDate, 0, s.WindowDays)
	for i := 1; i <= s.WindowDays; i++ {
		d := domain.DateOf(today.AddDate(0, 0, i))
		if d.Weekday() == s.Excluded {
			continue
		}
		out = append(out, d)
	}
	return out
}

func ParseDate(raw string) (domain.TargetDate, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(domain.InputLayout, s)
	if err != nil {
		return domain.TargetDate{}, fmt.Errorf("%w: %q (want dd/mm/yyyy)", ErrInvalidDateFormat, raw)
	}
	return domain.DateOf(t), nil
}

func ParseList(raw []string) ([]domain.TargetDate, error) {
	out := make([]domain.TargetDate, 0, len(raw))
	for _, r := range raw {
		d, err := ParseDate(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// SplitList splits a comma separated DATAS value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
