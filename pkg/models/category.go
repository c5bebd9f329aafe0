package models

import "time"

// Category classifies elements.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryPatch carries the fields of a partial category update.
// Nil fields are left unchanged.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (c *Category) Validate() error {
	return requireText("name", c.Name)
}

func (p CategoryPatch) Apply(c *Category) {
	setText(&c.Name, p.Name)
	setOptional(&c.Description, p.Description)
}

// Clone returns a deep copy of the category.
func (c *Category) Clone() *Category {
	out := *c
	out.Description = cloneString(c.Description)
	return &out
}
