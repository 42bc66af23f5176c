package export

import (
	"io"

	"weekly-meal-planner/internal/planner"
)

// JSON writes the plan in its persisted payload shape, so exports can be re-imported.
type JSON struct{}

func (JSON) Format() Format      { return FormatJSON }
func (JSON) ContentType() string { return "application/json" }
func (JSON) Extension() string   { return ".json" }

func (JSON) Render(w io.Writer, doc Document) error {
	data, err := planner.MarshalPlan(doc.Plan)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
