package recordings

import (
	"fmt"
	"strings"
	"time"
)

// AllEmployees is the employee criterion that disables employee filtering.
const AllEmployees = "all"

// DateLayout is the calendar-date format accepted for range criteria.
const DateLayout = "2006-01-02"

// Criteria narrows a recording list. Zero values disable a criterion.
// StartDate and EndDate only contribute their calendar date.
type Criteria struct {
	Employee  string
	StartDate time.Time
	EndDate   time.Time
	Query     string
}

// Active reports whether any criterion would exclude records.
func (c Criteria) Active() bool {
	return (c.Employee != "" && c.Employee != AllEmployees) ||
		!c.StartDate.IsZero() ||
		!c.EndDate.IsZero() ||
		strings.TrimSpace(c.Query) != ""
}

// Engine filters recordings and derives the employee list. It is pure: it
// holds only configuration and never mutates its input.
type Engine struct {
	keys KeyMode
	loc  *time.Location
}

// NewEngine returns an engine keyed by mode whose day boundaries are taken in loc.
// A nil loc means time.Local.
func NewEngine(mode KeyMode, loc *time.Location) *Engine {
	if !mode.Valid() {
		mode = KeyByEmployeeID
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{keys: mode, loc: loc}
}

func (e *Engine) KeyMode() KeyMode         { return e.keys }
func (e *Engine) Location() *time.Location { return e.loc }

// Filter returns the records matching every active criterion, in input order.
func (e *Engine) Filter(recs []Recording, c Criteria) []Recording {
	out := make([]Recording, 0, len(recs))
	if !c.Active() {
		return append(out, recs...)
	}

	employee := c.Employee
	if employee == AllEmployees {
		employee = ""
	}
	var from, to int64
	hasFrom, hasTo := !c.StartDate.IsZero(), !c.EndDate.IsZero()
	if hasFrom {
		from = StartOfDay(c.StartDate, e.loc).UnixMilli()
	}
	if hasTo {
		to = EndOfDay(c.EndDate, e.loc).UnixMilli()
	}
	query := strings.ToLower(strings.TrimSpace(c.Query))

	for _, r := range recs {
		key := e.keys.Key(r)
		if employee != "" && (key == "" || key != employee) {
			continue
		}
		if hasFrom && r.RecordedAt < from {
			continue
		}
		if hasTo && r.RecordedAt > to {
			continue
		}
		if query != "" && !e.matchesQuery(r, key, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) matchesQuery(r Recording, key, query string) bool {
	if strings.Contains(strings.ToLower(r.PhoneNumber), query) {
		return true
	}
	if strings.Contains(strings.ToLower(key), query) {
		return true
	}
	return strings.Contains(strings.ToLower(FormatRecordedAt(r.RecordedAt, e.loc)), query)
}

// Employees returns the distinct non-empty employee keys in first-seen order.
func (e *Engine) Employees(recs []Recording) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range recs {
		k := e.keys.Key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// StartOfDay is 00:00:00.000 of d's calendar date in loc.
func StartOfDay(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// EndOfDay is 23:59:59.999 of d's calendar date in loc.
func EndOfDay(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// ParseDate parses a YYYY-MM-DD calendar date in loc. Empty input yields the
// zero time, which disables the corresponding criterion.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidArgument, s)
	}
	return t, nil
}

// FormatRecordedAt renders a millisecond timestamp the way the dashboard shows
// it ("2024. 1. 15. 오후 3:04:05"). Free-text search matches against this text.
func FormatRecordedAt(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.UnixMilli(ms).In(loc)
	meridiem := "오전"
	if t.Hour() >= 12 {
		meridiem = "오후"
	}
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d. %d. %d. %s %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, h, t.Minute(), t.Second())
}
