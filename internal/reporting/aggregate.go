package reporting

import (
	"math"
	"sort"

	"callrec-dashboard/internal/recordings"
)

// Aggregate computes totals and per-employee statistics in one pass over
// recs. Missing or negative durations and sizes count as zero. Records with
// an empty employee key still count towards the summary and are grouped
// under the empty key.
func Aggregate(recs []recordings.Recording, mode recordings.KeyMode) Report {
	out := Report{PerEmployee: make([]EmployeeStat, 0)}
	index := make(map[string]int)

	for _, r := range recs {
		dur := nonNegative(r.Duration)
		size := nonNegative(r.FileSize)
		incoming := r.CallType.Normalize() == recordings.CallTypeIncoming

		out.Summary.TotalCalls++
		out.Summary.TotalDuration += dur
		out.Summary.TotalSize += size
		if incoming {
			out.Summary.TotalIncoming++
		} else {
			out.Summary.TotalOutgoing++
		}

		key := mode.Key(r)
		i, ok := index[key]
		if !ok {
			i = len(out.PerEmployee)
			index[key] = i
			out.PerEmployee = append(out.PerEmployee, EmployeeStat{
				Key:          key,
				EmployeeID:   r.EmployeeID,
				EmployeeName: r.EmployeeName,
			})
		}
		st := &out.PerEmployee[i]
		st.TotalCalls++
		st.TotalDuration += dur
		st.TotalSize += size
		if incoming {
			st.IncomingCalls++
		} else {
			st.OutgoingCalls++
		}
	}

	if out.Summary.TotalCalls > 0 {
		avg := float64(out.Summary.TotalDuration) / float64(out.Summary.TotalCalls)
		out.Summary.AvgDuration = int64(math.Round(avg))
	}
	return out
}

// SortByTotalCalls orders stats by call count, busiest first. Ties keep
// their relative order.
func SortByTotalCalls(stats []EmployeeStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalCalls > stats[j].TotalCalls
	})
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
