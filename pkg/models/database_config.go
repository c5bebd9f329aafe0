package models

import (
	"net/url"
	"time"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// DatabaseConfig is a named connection definition for an external database.
// ConnectionURL may carry credentials; the Postgres repository encrypts it
// at rest when a credentials key is configured.
type DatabaseConfig struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ConnectionURL string    `json:"connectionUrl"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DatabaseConfigPatch struct {
	Name          *string `json:"name"`
	ConnectionURL *string `json:"connectionUrl"`
	Description   *string `json:"description"`
}

func (d *DatabaseConfig) Validate() error {
	if err := requireText("name", d.Name); err != nil {
		return err
	}
	if err := requireText("connectionUrl", d.ConnectionURL); err != nil {
		return err
	}
	u, err := url.Parse(d.ConnectionURL)
	if err != nil || u.Scheme == "" {
		return apperrors.Invalid("connectionUrl", "must be a URL with a scheme")
	}
	return nil
}

func (p DatabaseConfigPatch) Apply(d *DatabaseConfig) {
	setText(&d.Name, p.Name)
	setText(&d.ConnectionURL, p.ConnectionURL)
	setOptional(&d.Description, p.Description)
}

func (d *DatabaseConfig) Clone() *DatabaseConfig {
	out := *d
	out.Description = cloneString(d.Description)
	return &out
}
