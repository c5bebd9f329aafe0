package models

import "time"

// Element is a catalog item, the primary object governed by the catalog.
// CategoryID and OwnerGroupID must reference existing records; storage
// enforces this on create and update.
type Element struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	CategoryID   int64     `json:"categoryId"`
	OwnerGroupID int64     `json:"ownerGroupId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ElementPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	CategoryID   *int64  `json:"categoryId"`
	OwnerGroupID *int64  `json:"ownerGroupId"`
}

func (e *Element) Validate() error {
	if err := requireText("name", e.Name); err != nil {
		return err
	}
	if err := requireID("categoryId", e.CategoryID); err != nil {
		return err
	}
	return requireID("ownerGroupId", e.OwnerGroupID)
}

func (p ElementPatch) Apply(e *Element) {
	setText(&e.Name, p.Name)
	setOptional(&e.Description, p.Description)
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.OwnerGroupID != nil {
		e.OwnerGroupID = *p.OwnerGroupID
	}
}

func (e *Element) Clone() *Element {
	out := *e
	out.Description = cloneString(e.Description)
	return &out
}

// ElementDetail is an element together with the records it references and
// the records nested under it.
type ElementDetail struct {
	Element
	Category     *Category            `json:"category"`
	OwnerGroup   *OwnerGroup          `json:"ownerGroup"`
	Definitions  []*ElementDefinition `json:"definitions"`
	Mappings     []*MappingDetail     `json:"mappings"`
	QualityRules []*Rule              `json:"qualityRules"`
}

// MappingDetail is a mapping with its database config inlined.
type MappingDetail struct {
	DatabaseMapping
	DatabaseConfig *DatabaseConfig `json:"databaseConfig"`
}
