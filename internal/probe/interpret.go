package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hamed0406/slotwatch/internal/domain"
)

const (
	msgUnavailable = "Unavailable"
	msgAvailable   = "Schedules available"
	msgNoVacancy   = "No vacancy"

	// placeholderTimes is what the backend sends in horarios when a date has
	// a positive count but no bookable time.
	placeholderTimes = "00:00"

	snippetRunes = 160
)

// Interpret classifies an upstream body. It never fails: anything that is not
// a JSON object counts as NoVacancy with a short echo of the body.
func Interpret(body []byte) domain.Outcome {
	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil || data == nil {
		return domain.Outcome{Verdict: domain.NoVacancy, Message: Snippet(body)}
	}
	// trailing output (PHP notices after the object) makes the body non-JSON
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Outcome{Verdict: domain.NoVacancy, Message: Snippet(body)}
	}

	msn := strings.TrimSpace(text(data["msn"]))

	if strings.EqualFold(text(data["error"]), "true") {
		return domain.Outcome{Verdict: domain.NotYetReleased, Message: orDefault(msn, msgUnavailable)}
	}

	count := integer(data["atendimentos"])
	times := strings.TrimSpace(text(data["horarios"]))

	if count > 0 && times != "" && times != placeholderTimes {
		return domain.Outcome{Verdict: domain.Available, Message: orDefault(msn, msgAvailable)}
	}
	return domain.Outcome{Verdict: domain.NoVacancy, Message: orDefault(msn, msgNoVacancy)}
}

// Snippet flattens body to one line and keeps at most 160 characters.
func Snippet(body []byte) string {
	s := strings.ReplaceAll(strings.TrimSpace(string(body)), "\n", " ")
	r := []rune(s)
	if len(r) > snippetRunes {
		r = r[:snippetRunes]
	}
	return string(r)
}

// text renders a loosely typed JSON value the way the backend's page reads it.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// integer coerces a slot count; anything non-numeric is 0.
func integer(v any) int {
	switch x := v.(type) {
	case json.Number:
		// Atoi saturates on ErrRange
		if n, err := strconv.Atoi(x.String()); err == nil || errors.Is(err, strconv.ErrRange) {
			return n
		}
		if f, err := x.Float64(); err == nil && !math.IsInf(f, 0) {
			return clampInt(f)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil || errors.Is(err, strconv.ErrRange) {
			return n
		}
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// clampInt truncates f, saturating counts that do not fit in an int.
func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
