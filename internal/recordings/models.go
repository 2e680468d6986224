package recordings

// Recording is one uploaded call-audio artifact and its metadata.
//
// Field names in JSON match the stored documents exactly; the upload app
// writes them and this service only reads them.
//
// Timestamps are milliseconds since epoch. Duration is seconds, FileSize bytes.
type Recording struct {
	ID string `json:"id"`

	PhoneNumber string   `json:"phoneNumber"`
	CallType    CallType `json:"callType"`

	Duration   int64 `json:"duration"`
	RecordedAt int64 `json:"recordedAt"`
	UploadedAt int64 `json:"uploadedAt"`

	EmployeeName  string `json:"employeeName"`
	EmployeeID    string `json:"employeeId"`
	EmployeePhone string `json:"employeePhone"`

	FileSize    int64  `json:"fileSize"`
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
}

type CallType string

const (
	CallTypeIncoming CallType = "incoming"
	CallTypeOutgoing CallType = "outgoing"
)

// Valid reports whether t is one of the two known directions.
func (t CallType) Valid() bool {
	return t == CallTypeIncoming || t == CallTypeOutgoing
}

// Normalize collapses anything that is not incoming into outgoing.
// Statistics rely on this so that incoming + outgoing always equals the total.
func (t CallType) Normalize() CallType {
	if t == CallTypeIncoming {
		return CallTypeIncoming
	}
	return CallTypeOutgoing
}

// KeyMode selects which field identifies the owner of a recording for
// filtering, the employee list and statistics.
type KeyMode string

const (
	KeyByEmployeeID   KeyMode = "employee_id"
	KeyByEmployeeName KeyMode = "employee_name"
)

func (m KeyMode) Valid() bool {
	return m == KeyByEmployeeID || m == KeyByEmployeeName
}

// Key returns the employee key of r. In employee_id mode an empty id falls
// back to the employee name, since older documents were written without it.
func (m KeyMode) Key(r Recording) string {
	if m == KeyByEmployeeName {
		return r.EmployeeName
	}
	if r.EmployeeID != "" {
		return r.EmployeeID
	}
	return r.EmployeeName
}
