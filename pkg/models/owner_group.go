package models

import "time"

// OwnerGroup is the team accountable for a set of elements.
type OwnerGroup struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type OwnerGroupPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (g *OwnerGroup) Validate() error {
	return requireText("name", g.Name)
}

func (p OwnerGroupPatch) Apply(g *OwnerGroup) {
	setText(&g.Name, p.Name)
	setOptional(&g.Description, p.Description)
}

func (g *OwnerGroup) Clone() *OwnerGroup {
	out := *g
	out.Description = cloneString(g.Description)
	return &out
}
