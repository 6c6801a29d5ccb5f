package lesson

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Descriptor is one lesson of the catalog.
type Descriptor struct {
	// CatalogKey is the key the lesson is stored under (e.g. "Lesson1").
	CatalogKey  string          `json:"-"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Section     string          `json:"section"`
	SectionKey  string          `json:"key"`
	Games       json.RawMessage `json:"games,omitempty"`
}

// Round is one pruned variation played during a session.
type Round struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"gameKey"`
	Variation json.RawMessage `json:"variation"`
}

func roundID(k Kind, index int) string {
	return fmt.Sprintf("%s_%d", k, index)
}

// Data returns the round's data payload.
func (r Round) Data() gjson.Result {
	return gjson.GetBytes(r.Variation, "data")
}
