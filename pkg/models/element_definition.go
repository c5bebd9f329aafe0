package models

import "time"

// ElementDefinition is one immutable, versioned revision of an element's
// business definition. Versions start at 1 and increase per element.
type ElementDefinition struct {
	ID         int64     `json:"id"`
	ElementID  int64     `json:"elementId"`
	Version    int       `json:"version"`
	Definition string    `json:"definition"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (d *ElementDefinition) Validate() error {
	if err := requireText("definition", d.Definition); err != nil {
		return err
	}
	return requireText("createdBy", d.CreatedBy)
}

func (d *ElementDefinition) Clone() *ElementDefinition {
	out := *d
	return &out
}
