package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tasks/internal/model"
)

// DefaultSlot is the key the task list snapshot lives under.
const DefaultSlot = "tasks"

// Fields are optional: a record missing a title or done flag still loads,
// with the zero value in its place.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "title": {"type": "string"},
      "done": {"type": "boolean"}
    }
  }
}`

var snapshotValidator = jsonschema.MustCompileString("tasks.schema.json", snapshotSchema)

// SnapshotError reports a stored snapshot that does not match the schema.
type SnapshotError struct {
	Slot   string
	Issues []string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %q is malformed: %s", e.Slot, strings.Join(e.Issues, "; "))
}

// LoadTasks reads and decodes the snapshot under slot. ok is false when the
// slot has never been written.
func LoadTasks(b Backend, slot string) ([]model.Task, bool, error) {
	raw, ok, err := b.Get(slot)
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", slot, err)
	}
	if !ok {
		return nil, false, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, true, fmt.Errorf("json decode slot %q: %w", slot, err)
	}
	if err := snapshotValidator.Validate(doc); err != nil {
		return nil, true, snapshotError(slot, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, true, fmt.Errorf("json unmarshal slot %q: %w", slot, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, true, nil
}

// SaveTasks writes tasks under slot as a compact JSON array.
func SaveTasks(b Backend, slot string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := b.Set(slot, strings.TrimSuffix(buf.String(), "\n")); err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

func snapshotError(slot string, err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validate slot %q: %w", slot, err)
	}
	se := &SnapshotError{Slot: slot}
	collectIssues(se, ve)
	return se
}

func collectIssues(se *SnapshotError, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "#")
		if loc == "" {
			loc = "/"
		}
		se.Issues = append(se.Issues, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(se, cause)
	}
}
