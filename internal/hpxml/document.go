// internal/hpxml/document.go
package hpxml

import (
	"fmt"

	"github.com/beevik/etree"

	apperrors "github.com/rajeee/loadflex/internal/common/errors"
)

// extensionPath is where schedule references live in each building subtree.
var extensionPath = []string{"BuildingDetails", "BuildingSummary", "extension"}

const scheduleTag = "SchedulesFilePath"

// Document is an in-memory HPXML tree. It is owned by a single run and
// mutated in place; Save persists it back to its original location.
type Document struct {
	path string
	tree *etree.Document
}

// Load reads the HPXML document at path.
func Load(path string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read HPXML document %s: %w", path, err)
	}
	return &Document{path: path, tree: tree}, nil
}

// Path returns the document's on-disk location.
func (d *Document) Path() string {
	return d.path
}

// Buildings returns all building elements in document order.
func (d *Document) Buildings() []*etree.Element {
	return d.tree.FindElements("//Building")
}

// BuildingID returns the id attribute of a building's BuildingID element.
func (d *Document) BuildingID(building *etree.Element) (string, error) {
	idElem := building.FindElement("BuildingID")
	if idElem == nil {
		return "", apperrors.NewDocumentStructureMissingError("building has no BuildingID element")
	}
	id := idElem.SelectAttrValue("id", "")
	if id == "" {
		return "", apperrors.NewDocumentStructureMissingError("BuildingID element has no id attribute")
	}
	return id, nil
}

// AttachSchedulePath records a schedule file reference under the building's
// extension region. The intermediate elements are created only when absent,
// and a reference whose text already equals csvPath is not duplicated, so
// repeated runs against the same document are no-ops.
func (d *Document) AttachSchedulePath(building *etree.Element, csvPath string) {
	extension := createElementsAsNeeded(building, extensionPath)

	for _, existing := range extension.SelectElements(scheduleTag) {
		if existing.Text() == csvPath {
			return
		}
	}

	ref := extension.CreateElement(scheduleTag)
	ref.SetText(csvPath)
}

// Save persists the document back to its original location with an explicit
// UTF-8 declaration.
func (d *Document) Save() error {
	d.ensureDeclaration()
	d.tree.Indent(2)
	if err := d.tree.WriteToFile(d.path); err != nil {
		return apperrors.NewScheduleWriteFailedError(d.path, err)
	}
	return nil
}

func (d *Document) ensureDeclaration() {
	for _, tok := range d.tree.Child {
		if _, ok := tok.(*etree.ProcInst); ok {
			return
		}
	}
	pi := &etree.ProcInst{Target: "xml", Inst: `version="1.0" encoding="UTF-8"`}
	d.tree.InsertChildAt(0, pi)
}

// createElementsAsNeeded walks the tag path below parent, creating each
// missing level exactly once.
func createElementsAsNeeded(parent *etree.Element, tags []string) *etree.Element {
	current := parent
	for _, tag := range tags {
		next := current.SelectElement(tag)
		if next == nil {
			next = current.CreateElement(tag)
		}
		current = next
	}
	return current
}
