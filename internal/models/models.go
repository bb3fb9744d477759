// Package models defines the fixed-shape record types persisted per worker
// identity. Field sets are closed: the sync gateway rejects blobs with
// unknown fields instead of trusting the backing store's shape.
package models

// Role gates access to the admin directory and target retargeting.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NoTrainCode is stored in place of an empty train code. It reads back as
// empty in the edit-load path.
const NoTrainCode = "no-train-code"

// Classification labels derived from the bonus rule, never stored
// independently of it.
const (
	ClassStandard = "standard"
	ClassDeadhead = "deadhead-or-C-prefixed"
)

// Identity is a worker or admin account, keyed by a worker-supplied numeric
// id. Auto-registered on first login; name/workshop/fleet are refreshed
// last-write-wins on later logins.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Workshop string `json:"workshop"`
	Fleet    string `json:"fleet"`
}

// WorkRecord is one logged shift in its wire shape.
type WorkRecord struct {
	Date     string  `json:"date"`  // YYYY-MM-DD
	Train    string  `json:"train"` // uppercased code or NoTrainCode
	Start    string  `json:"start"` // HH:MM
	End      string  `json:"end"`   // HH:MM
	Duration float64 `json:"duration"`
	Note     string  `json:"note"` // classification label
}

// IsDeadhead reports whether the record was classified as zero-bonus.
func (r WorkRecord) IsDeadhead() bool {
	return r.Note != ClassStandard
}

// EditTrain returns the train code as an edit form shows it: the storage
// sentinel reads back as empty.
func (r WorkRecord) EditTrain() string {
	if r.Train == NoTrainCode {
		return ""
	}
	return r.Train
}

// StartStamp reconstructs the full attendance timestamp from the split
// date and clock fields.
func (r WorkRecord) StartStamp() string {
	return r.Date + " " + r.Start
}

// EndStamp reconstructs the full departure timestamp.
func (r WorkRecord) EndStamp() string {
	return r.Date + " " + r.End
}

// AccountData is the whole-blob persistence payload for one identity.
type AccountData struct {
	UserInfo    *Identity    `json:"user_info"`
	WorkRecords []WorkRecord `json:"work_records"`
}

// DirectorySummary is one row of the admin directory listing.
type DirectorySummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Workshop string `json:"workshop"`
}
