package recordings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul = time.FixedZone("KST", 9*60*60)

func day(y int, m time.Month, d, h, min int) int64 {
	return time.Date(y, m, d, h, min, 0, 0, seoul).UnixMilli()
}

func sampleRecordings() []Recording {
	return []Recording{
		{ID: "r1", EmployeeID: "E1", EmployeeName: "Kim", PhoneNumber: "010-1111-2222", CallType: CallTypeIncoming, Duration: 60, FileSize: 1000, RecordedAt: day(2024, 1, 15, 15, 4)},
		{ID: "r2", EmployeeID: "E1", EmployeeName: "Kim", PhoneNumber: "010-3333-4444", CallType: CallTypeOutgoing, Duration: 30, FileSize: 500, RecordedAt: day(2024, 1, 14, 9, 0)},
		{ID: "r3", EmployeeID: "E2", EmployeeName: "Lee", PhoneNumber: "02-555-6666", CallType: CallTypeIncoming, Duration: 90, FileSize: 2000, RecordedAt: day(2024, 1, 10, 11, 30)},
	}
}

func ids(recs []Recording) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_NoCriteriaIsIdentity(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	recs := sampleRecordings()

	assert.Equal(t, recs, e.Filter(recs, Criteria{}))
	assert.Equal(t, recs, e.Filter(recs, Criteria{Employee: AllEmployees}))
}

func TestFilter_EmptyInput(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	out := e.Filter(nil, Criteria{Employee: "E1", Query: "x"})
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestFilter_Idempotent(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	c := Criteria{Employee: "E1", Query: "010"}
	once := e.Filter(sampleRecordings(), c)
	assert.Equal(t, once, e.Filter(once, c))
}

func TestFilter_ByEmployeeKeepsOrder(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	assert.Equal(t, []string{"r1", "r2"}, ids(e.Filter(sampleRecordings(), Criteria{Employee: "E1"})))
}

func TestFilter_EmployeeIsCaseSensitive(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	assert.Empty(t, e.Filter(sampleRecordings(), Criteria{Employee: "e1"}))
}

func TestFilter_QueryMatchesEmployeeKey(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	assert.Equal(t, []string{"r3"}, ids(e.Filter(sampleRecordings(), Criteria{Query: "E2"})))
}

func TestFilter_QueryMatchesPhoneAndDateText(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	recs := sampleRecordings()

	assert.Equal(t, []string{"r2"}, ids(e.Filter(recs, Criteria{Query: "3333"})))
	assert.Equal(t, []string{"r1"}, ids(e.Filter(recs, Criteria{Query: "2024. 1. 15."})))
	assert.Equal(t, []string{"r1"}, ids(e.Filter(recs, Criteria{Query: "오후"})))
}

func TestFilter_QueryIsCaseInsensitive(t *testing.T) {
	e := NewEngine(KeyByEmployeeName, seoul)
	assert.Equal(t, []string{"r3"}, ids(e.Filter(sampleRecordings(), Criteria{Query: "lEE"})))
}

func TestFilter_DateRange(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	c := Criteria{
		StartDate: time.Date(2024, 1, 14, 0, 0, 0, 0, seoul),
		EndDate:   time.Date(2024, 1, 14, 0, 0, 0, 0, seoul),
	}
	assert.Equal(t, []string{"r2"}, ids(e.Filter(sampleRecordings(), c)))
}

func TestFilter_EndOfDayBoundary(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, seoul)
	edge := EndOfDay(end, seoul).UnixMilli()

	recs := []Recording{
		{ID: "at", EmployeeID: "E1", RecordedAt: edge},
		{ID: "after", EmployeeID: "E1", RecordedAt: edge + 1},
	}
	assert.Equal(t, []string{"at"}, ids(e.Filter(recs, Criteria{EndDate: end})))
}

func TestFilter_StartOfDayBoundary(t *testing.T) {
	e := NewEngine(KeyByEmployeeID, seoul)
	start := time.Date(2024, 3, 1, 18, 0, 0, 0, seoul)
	edge := StartOfDay(start, seoul).UnixMilli()

	recs := []Recording{
		{ID: "before", EmployeeID: "E1", RecordedAt: edge - 1},
		{ID: "at", EmployeeID: "E1", RecordedAt: edge},
	}
	assert.Equal(t, []string{"at"}, ids(e.Filter(recs, Criteria{StartDate: start})))
}

func TestFilter_EmptyKeyNeverMatchesEmployee(t *testing.T) {
	e := NewEngine(KeyByEmployeeName, seoul)
	recs := []Recording{{ID: "anon"}, {ID: "named", EmployeeName: "Kim"}}

	assert.Equal(t, []string{"named"}, ids(e.Filter(recs, Criteria{Employee: "Kim"})))
	assert.Len(t, e.Filter(recs, Criteria{Employee: AllEmployees}), 2)
}

func TestEmployees_DistinctFirstSeen(t *testing.T) {
	recs := append(sampleRecordings(), Recording{ID: "r4"}, Recording{ID: "r5", EmployeeName: "Park"})

	assert.Equal(t, []string{"E1", "E2", "Park"}, NewEngine(KeyByEmployeeID, seoul).Employees(recs))
	assert.Equal(t, []string{"Kim", "Lee", "Park"}, NewEngine(KeyByEmployeeName, seoul).Employees(recs))
	assert.Empty(t, NewEngine(KeyByEmployeeID, seoul).Employees(nil))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29", seoul)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, seoul), d)

	d, err = ParseDate("  ", seoul)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("29/02/2024", seoul)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFormatRecordedAt(t *testing.T) {
	assert.Equal(t, "2024. 1. 15. 오후 3:04:00", FormatRecordedAt(day(2024, 1, 15, 15, 4), seoul))
	assert.Equal(t, "2024. 1. 15. 오전 12:05:00", FormatRecordedAt(day(2024, 1, 15, 0, 5), seoul))
}

func TestCallTypeNormalize(t *testing.T) {
	assert.Equal(t, CallTypeIncoming, CallTypeIncoming.Normalize())
	assert.Equal(t, CallTypeOutgoing, CallType("missed").Normalize())
	assert.False(t, CallType("").Valid())
}

func TestKeyMode_FallsBackToName(t *testing.T) {
	r := Recording{EmployeeName: "Kim"}
	assert.Equal(t, "Kim", KeyByEmployeeID.Key(r))
	r.EmployeeID = "E9"
	assert.Equal(t, "E9", KeyByEmployeeID.Key(r))
	assert.Equal(t, "Kim", KeyByEmployeeName.Key(r))
}
