// Package workflow implements the staged selection an operator moves through
// before filing: pick a family, pick subfamilies within it, then mark
// documents for add or update.
//
// The workflow is a plain state machine independent of any rendering. It holds
// copies of the catalog entities so that navigating back and forth never
// aliases or mutates the catalog it was loaded from.
package workflow

import (
	"errors"
	"fmt"

	"github.com/harrison/dhffiler/internal/models"
)

// State is a stage of the selection workflow
type State int

const (
	// StateScanning is shown while a discovery pass runs
	StateScanning State = iota
	// StateFamilySelect is the initial, re-enterable stage
	StateFamilySelect
	// StateSubfamilySelect toggles subfamilies of the active family
	StateSubfamilySelect
	// StateDocumentSelect marks documents of the confirmed subfamilies
	StateDocumentSelect
)

// String returns the stage name
func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateFamilySelect:
		return "family select"
	case StateSubfamilySelect:
		return "subfamily select"
	case StateDocumentSelect:
		return "document select"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrInvalidTransition is returned when an action is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid workflow transition")
	// ErrOutOfRange is returned when an index does not address an item of the current read model
	ErrOutOfRange = errors.New("index out of range")
)

// DocumentRef addresses a document in the grouped document list
type DocumentRef struct {
	SubFamily int // Index into DocumentGroups()
	Document  int // Index into that group's Documents
}

// Workflow is the selection state machine. It is not safe for concurrent use.
type Workflow struct {
	state    State
	families []models.Family
	active   *models.Family
	toFile   []models.SubFamily
}

// New returns a workflow in StateFamilySelect over copies of families
func New(families []models.Family) *Workflow {
	w := &Workflow{}
	w.families = cloneFamilies(families)
	w.state = StateFamilySelect
	return w
}

// State returns the current stage
func (w *Workflow) State() State {
	return w.state
}

// BeginScan enters StateScanning for a rescan. The active family and any
// confirmed subfamilies are dropped.
func (w *Workflow) BeginScan() error {
	if w.state != StateFamilySelect && w.state != StateScanning {
		return w.invalid("scan")
	}
	w.state = StateScanning
	w.active = nil
	w.toFile = nil
	return nil
}

// Load replaces the family list with the result of a scan and returns to
// StateFamilySelect.
func (w *Workflow) Load(families []models.Family) error {
	if w.state != StateScanning {
		return w.invalid("load")
	}
	w.families = cloneFamilies(families)
	w.state = StateFamilySelect
	return nil
}

// SelectFamily captures a full copy of family i as the active family and
// moves to StateSubfamilySelect.
func (w *Workflow) SelectFamily(i int) error {
	if w.state != StateFamilySelect {
		return w.invalid("select family")
	}
	if i < 0 || i >= len(w.families) {
		return fmt.Errorf("family %d of %d: %w", i, len(w.families), ErrOutOfRange)
	}
	active := w.families[i].Clone()
	w.active = &active
	w.state = StateSubfamilySelect
	return nil
}

// ToggleSubfamily flips the to-file flag of the active family's subfamily i
func (w *Workflow) ToggleSubfamily(i int) error {
	if w.state != StateSubfamilySelect {
		return w.invalid("toggle subfamily")
	}
	if i < 0 || i >= len(w.active.Subfamilies) {
		return fmt.Errorf("subfamily %d of %d: %w", i, len(w.active.Subfamilies), ErrOutOfRange)
	}
	w.active.Subfamilies[i].ToFile = !w.active.Subfamilies[i].ToFile
	return nil
}

// ConfirmSubfamilies appends copies of the flagged subfamilies to the to-file
// list and moves to StateDocumentSelect.
func (w *Workflow) ConfirmSubfamilies() error {
	if w.state != StateSubfamilySelect {
		return w.invalid("confirm subfamilies")
	}
	for _, sf := range w.active.Subfamilies {
		if sf.ToFile {
			w.toFile = append(w.toFile, sf.Clone())
		}
	}
	w.state = StateDocumentSelect
	return nil
}

// ToggleDocumentAdd flips the add intent of the referenced document
func (w *Workflow) ToggleDocumentAdd(ref DocumentRef) error {
	doc, err := w.document(ref, "toggle add")
	if err != nil {
		return err
	}
	doc.ToAdd = !doc.ToAdd
	return nil
}

// ToggleDocumentUpdate flips the update intent of the referenced document
func (w *Workflow) ToggleDocumentUpdate(ref DocumentRef) error {
	doc, err := w.document(ref, "toggle update")
	if err != nil {
		return err
	}
	doc.ToUpdate = !doc.ToUpdate
	return nil
}

func (w *Workflow) document(ref DocumentRef, action string) (*models.Document, error) {
	if w.state != StateDocumentSelect {
		return nil, w.invalid(action)
	}
	if ref.SubFamily < 0 || ref.SubFamily >= len(w.toFile) {
		return nil, fmt.Errorf("subfamily %d of %d: %w", ref.SubFamily, len(w.toFile), ErrOutOfRange)
	}
	docs := w.toFile[ref.SubFamily].Documents
	if ref.Document < 0 || ref.Document >= len(docs) {
		return nil, fmt.Errorf("document %d of %d: %w", ref.Document, len(docs), ErrOutOfRange)
	}
	return &docs[ref.Document], nil
}

// GoBack returns to the previous stage.
//
// From StateDocumentSelect the to-file list is cleared, leaving the active
// family's subfamily flags as they were. From StateSubfamilySelect nothing is
// cleaned up; the active family is replaced by the next selection.
func (w *Workflow) GoBack() error {
	switch w.state {
	case StateDocumentSelect:
		w.toFile = nil
		w.state = StateSubfamilySelect
	case StateSubfamilySelect:
		w.state = StateFamilySelect
	default:
		return w.invalid("go back")
	}
	return nil
}

// Families returns the family list in catalog order
func (w *Workflow) Families() []models.Family {
	return cloneFamilies(w.families)
}

// ActiveFamily returns a copy of the active family, if one is selected
func (w *Workflow) ActiveFamily() (models.Family, bool) {
	if w.active == nil {
		return models.Family{}, false
	}
	return w.active.Clone(), true
}

// Subfamilies returns the active family's subfamilies with their flags.
// It is empty when no family is active.
func (w *Workflow) Subfamilies() []models.SubFamily {
	if w.active == nil {
		return []models.SubFamily{}
	}
	return cloneSubfamilies(w.active.Subfamilies)
}

// DocumentGroups returns the confirmed subfamilies, each carrying its documents
func (w *Workflow) DocumentGroups() []models.SubFamily {
	return cloneSubfamilies(w.toFile)
}

// Selection returns the documents marked for add or update, in group order
func (w *Workflow) Selection() []models.SelectedDocument {
	selected := make([]models.SelectedDocument, 0)
	for _, sf := range w.toFile {
		for _, doc := range sf.Documents {
			if doc.Marked() {
				selected = append(selected, models.SelectedDocument{
					SubFamily:     sf.Name,
					SubFamilyPath: sf.Path,
					Document:      doc.Clone(),
				})
			}
		}
	}
	return selected
}

func (w *Workflow) invalid(action string) error {
	return fmt.Errorf("cannot %s in %s: %w", action, w.state, ErrInvalidTransition)
}

func cloneFamilies(families []models.Family) []models.Family {
	out := make([]models.Family, len(families))
	for i, f := range families {
		out[i] = f.Clone()
	}
	return out
}

func cloneSubfamilies(subfamilies []models.SubFamily) []models.SubFamily {
	out := make([]models.SubFamily, len(subfamilies))
	for i, sf := range subfamilies {
		out[i] = sf.Clone()
	}
	return out
}
