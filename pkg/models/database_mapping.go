package models

import "time"

const (
	MappingTypeDirect     = "direct"
	MappingTypeDerived    = "derived"
	MappingTypeCalculated = "calculated"
)

// DatabaseMapping locates an element's physical column in a configured
// database.
type DatabaseMapping struct {
	ID                  int64          `json:"id"`
	ElementID           int64          `json:"elementId"`
	DatabaseConfigID    int64          `json:"databaseConfigId"`
	SchemaName          string         `json:"schemaName"`
	TableName           string         `json:"tableName"`
	ColumnName          string         `json:"columnName"`
	MappingType         string         `json:"mappingType"`
	TransformationLogic map[string]any `json:"transformationLogic"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (m *DatabaseMapping) Validate() error {
	if err := requireID("databaseConfigId", m.DatabaseConfigID); err != nil {
		return err
	}
	for _, f := range []struct{ name, value string }{
		{"schemaName", m.SchemaName},
		{"tableName", m.TableName},
		{"columnName", m.ColumnName},
		{"mappingType", m.MappingType},
	} {
		if err := requireText(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (m *DatabaseMapping) Clone() *DatabaseMapping {
	out := *m
	out.TransformationLogic = CloneJSONObject(m.TransformationLogic)
	return &out
}
