package reporting

import (
	"context"
	"errors"
	"testing"

	"callrec-dashboard/internal/recordings"
)

func scenario() []recordings.Recording {
	return []recordings.Recording{
		{ID: "a", EmployeeID: "E1", EmployeeName: "Kim", CallType: recordings.CallTypeIncoming, Duration: 60, FileSize: 1000, RecordedAt: 3},
		{ID: "b", EmployeeID: "E1", EmployeeName: "Kim", CallType: recordings.CallTypeOutgoing, Duration: 30, FileSize: 500, RecordedAt: 2},
		{ID: "c", EmployeeID: "E2", EmployeeName: "Lee", CallType: recordings.CallTypeIncoming, Duration: 90, FileSize: 2000, RecordedAt: 1},
	}
}

func TestAggregate_Scenario(t *testing.T) {
	rep := Aggregate(scenario(), recordings.KeyByEmployeeID)

	want := Summary{TotalCalls: 3, TotalIncoming: 2, TotalOutgoing: 1, TotalDuration: 180, TotalSize: 3500, AvgDuration: 60}
	if rep.Summary != want {
		t.Fatalf("summary = %+v, want %+v", rep.Summary, want)
	}
	if len(rep.PerEmployee) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(rep.PerEmployee))
	}
	e1 := EmployeeStat{Key: "E1", EmployeeID: "E1", EmployeeName: "Kim", TotalCalls: 2, IncomingCalls: 1, OutgoingCalls: 1, TotalDuration: 90, TotalSize: 1500}
	e2 := EmployeeStat{Key: "E2", EmployeeID: "E2", EmployeeName: "Lee", TotalCalls: 1, IncomingCalls: 1, OutgoingCalls: 0, TotalDuration: 90, TotalSize: 2000}
	if rep.PerEmployee[0] != e1 || rep.PerEmployee[1] != e2 {
		t.Fatalf("per employee = %+v", rep.PerEmployee)
	}
}

func TestAggregate_EmptyIsZero(t *testing.T) {
	rep := Aggregate(nil, recordings.KeyByEmployeeID)
	if rep.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", rep.Summary)
	}
	if rep.PerEmployee == nil || len(rep.PerEmployee) != 0 {
		t.Fatalf("expected empty non-nil per employee, got %#v", rep.PerEmployee)
	}
}

func TestAggregate_PartitionIsComplete(t *testing.T) {
	recs := append(scenario(),
		recordings.Recording{ID: "d", EmployeeName: "Park", CallType: "missed", Duration: -5, FileSize: -1},
		recordings.Recording{ID: "e", CallType: recordings.CallTypeIncoming, Duration: 7},
	)
	rep := Aggregate(recs, recordings.KeyByEmployeeID)

	s := rep.Summary
	if s.TotalIncoming+s.TotalOutgoing != s.TotalCalls {
		t.Fatalf("incoming %d + outgoing %d != total %d", s.TotalIncoming, s.TotalOutgoing, s.TotalCalls)
	}
	var calls int
	var dur, size int64
	for _, st := range rep.PerEmployee {
		calls += st.TotalCalls
		dur += st.TotalDuration
		size += st.TotalSize
		if st.IncomingCalls+st.OutgoingCalls != st.TotalCalls {
			t.Fatalf("employee %q split does not add up: %+v", st.Key, st)
		}
	}
	if calls != s.TotalCalls || dur != s.TotalDuration || size != s.TotalSize {
		t.Fatalf("per employee totals (%d, %d, %d) differ from summary %+v", calls, dur, size, s)
	}
	if s.TotalDuration != 187 || s.TotalSize != 3500 {
		t.Fatalf("negative values must count as zero: %+v", s)
	}
}

func TestAggregate_AverageRounds(t *testing.T) {
	recs := []recordings.Recording{{Duration: 1}, {Duration: 2}}
	if got := Aggregate(recs, recordings.KeyByEmployeeName).Summary.AvgDuration; got != 2 {
		t.Fatalf("avg of 1,2 = %d, want 2", got)
	}
	recs = append(recs, recordings.Recording{Duration: 0})
	if got := Aggregate(recs, recordings.KeyByEmployeeName).Summary.AvgDuration; got != 1 {
		t.Fatalf("avg of 1,2,0 = %d, want 1", got)
	}
}

func TestAggregate_FirstRecordNamesEmployee(t *testing.T) {
	recs := []recordings.Recording{
		{EmployeeID: "E1", EmployeeName: "Kim"},
		{EmployeeID: "E1", EmployeeName: "Kim Minsu"},
	}
	rep := Aggregate(recs, recordings.KeyByEmployeeID)
	if rep.PerEmployee[0].EmployeeName != "Kim" {
		t.Fatalf("expected first-seen name, got %q", rep.PerEmployee[0].EmployeeName)
	}
}

func TestSortByTotalCalls_Stable(t *testing.T) {
	stats := []EmployeeStat{
		{Key: "a", TotalCalls: 1},
		{Key: "b", TotalCalls: 3},
		{Key: "c", TotalCalls: 1},
		{Key: "d", TotalCalls: 3},
	}
	SortByTotalCalls(stats)
	got := []string{stats[0].Key, stats[1].Key, stats[2].Key, stats[3].Key}
	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestService_DashboardSortsAndDegrades(t *testing.T) {
	repo := recordings.NewMemoryRepo(append(scenario(),
		recordings.Recording{ID: "x", EmployeeID: "E2", CallType: recordings.CallTypeOutgoing, RecordedAt: 0},
		recordings.Recording{ID: "y", EmployeeID: "E2", CallType: recordings.CallTypeOutgoing, RecordedAt: 0},
	)...)
	src := recordings.NewService(repo, nil, nil, nil, recordings.NewEngine(recordings.KeyByEmployeeID, nil))
	svc := NewService(src)

	d := svc.Dashboard(context.Background(), true)
	if d.Summary.TotalCalls != 5 {
		t.Fatalf("expected 5 calls, got %d", d.Summary.TotalCalls)
	}
	if d.PerEmployee[0].Key != "E2" {
		t.Fatalf("expected busiest employee first, got %+v", d.PerEmployee)
	}
	if d.GroupBy != "employee_id" {
		t.Fatalf("unexpected group by %q", d.GroupBy)
	}

	filtered := svc.Stats(context.Background(), recordings.Criteria{Employee: "E1"}, true)
	if filtered.Summary.TotalCalls != 2 {
		t.Fatalf("expected 2 filtered calls, got %d", filtered.Summary.TotalCalls)
	}

	repo.Err = errors.New("store down")
	empty := svc.Dashboard(context.Background(), true)
	if empty.Summary.TotalCalls != 0 || len(empty.PerEmployee) != 0 {
		t.Fatalf("expected empty dashboard on fetch failure, got %+v", empty)
	}
}
