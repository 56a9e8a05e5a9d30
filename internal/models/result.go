package models

import "time"

// Filing outcome status constants
const (
	StatusFiled    = "FILED"    // Document moved to a new destination
	StatusReplaced = "REPLACED" // Document replaced an existing filed copy
	StatusPlanned  = "PLANNED"  // Dry run: document would be filed
	StatusConflict = "CONFLICT" // Destination already occupied, document left in place
	StatusFailed   = "FAILED"   // Move failed, document left in place
)

// Filing actions
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
)

// FilingOutcome is the result of filing a single document
type FilingOutcome struct {
	Document    Document // The document that was filed
	SubFamily   string   // Name of the owning subfamily
	Action      string   // ActionAdd or ActionUpdate
	Destination string   // Computed destination path
	Status      string   // One of the Status constants
	Error       error    // Reason when Status is CONFLICT or FAILED
}

// Succeeded reports whether the document reached (or would reach) its destination
func (o FilingOutcome) Succeeded() bool {
	switch o.Status {
	case StatusFiled, StatusReplaced, StatusPlanned:
		return true
	default:
		return false
	}
}

// FilingResult represents the aggregate result of one filing run
type FilingResult struct {
	RunID      string          // Identifier of the filing run
	Family     string          // Family name
	BackupPath string          // Backup copy location, empty when no backup was taken
	DryRun     bool            // No filesystem changes were made
	Outcomes   []FilingOutcome // Per-document outcomes in selection order
	Duration   time.Duration   // Total filing time
}

// Succeeded returns the number of documents filed (or planned in a dry run)
func (r FilingResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failures returns the outcomes that did not reach their destination
func (r FilingResult) Failures() []FilingOutcome {
	failed := make([]FilingOutcome, 0)
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// SelectedDocument is a document the operator marked for filing, together
// with the subfamily it was selected from
type SelectedDocument struct {
	SubFamily     string   // Name of the owning subfamily
	SubFamilyPath string   // Path of the owning subfamily
	Document      Document // Copy of the document with its intent flags
}

// Action returns ActionUpdate when the document is marked for update and
// ActionAdd otherwise. Update wins when both intents are set.
func (s SelectedDocument) Action() string {
	if s.Document.ToUpdate {
		return ActionUpdate
	}
	return ActionAdd
}
