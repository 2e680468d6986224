package reporting

import "time"

// Summary aggregates a recording list as a whole.
type Summary struct {
	TotalCalls    int   `json:"totalCalls"`
	TotalIncoming int   `json:"totalIncoming"`
	TotalOutgoing int   `json:"totalOutgoing"`
	TotalDuration int64 `json:"totalDuration"`
	TotalSize     int64 `json:"totalSize"`
	AvgDuration   int64 `json:"avgDuration"`
}

// EmployeeStat aggregates the recordings sharing one employee key.
// EmployeeID and EmployeeName come from the first record seen for the key.
type EmployeeStat struct {
	Key           string `json:"key"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	TotalCalls    int    `json:"totalCalls"`
	IncomingCalls int    `json:"incomingCalls"`
	OutgoingCalls int    `json:"outgoingCalls"`
	TotalDuration int64  `json:"totalDuration"`
	TotalSize     int64  `json:"totalSize"`
}

// Report is the output of Aggregate. PerEmployee is in first-seen order.
type Report struct {
	Summary     Summary        `json:"summary"`
	PerEmployee []EmployeeStat `json:"perEmployee"`
}

// Dashboard is what the statistics view renders.
type Dashboard struct {
	Report
	GroupBy     string    `json:"groupBy"`
	GeneratedAt time.Time `json:"generatedAt"`
}
