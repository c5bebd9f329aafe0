package models

import (
	"strings"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// requireText fails when a required string field is empty or only whitespace.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Required(field)
	}
	return nil
}

// requireID fails when a required reference is missing or not positive.
func requireID(field string, id int64) error {
	if id <= 0 {
		return apperrors.Invalid(field, "must be a positive id")
	}
	return nil
}

// setText overlays a patch value onto a required string field.
func setText(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// setOptional overlays a patch value onto an optional string field.
// An empty string clears the field.
func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	v := *src
	*dst = &v
}

// cloneString copies an optional string so records never share storage.
func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
