package models

import "time"

// Common rule types and severities. Both sets are open: any non-empty
// value is accepted and interpreted by the external validation engine.
const (
	RuleTypeFormat = "format"
	RuleTypeRange  = "range"
	RuleTypeEnum   = "enum"
	RuleTypeRegex  = "regex"
	RuleTypeCustom = "custom"

	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Rule is a data-quality constraint attached to exactly one element.
// RuleConfig is opaque to the catalog.
type Rule struct {
	ID          int64          `json:"id"`
	ElementID   int64          `json:"elementId"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	RuleType    string         `json:"ruleType"`
	RuleConfig  map[string]any `json:"ruleConfig"`
	Severity    string         `json:"severity"`
	Enabled     bool           `json:"enabled"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// RuleInput is the create payload for a rule. Enabled defaults to true.
// ElementID is read only by top-level creation; nested creation takes the
// element from the path.
type RuleInput struct {
	ElementID   int64          `json:"elementId"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	RuleType    string         `json:"ruleType"`
	RuleConfig  map[string]any `json:"ruleConfig"`
	Severity    string         `json:"severity"`
	Enabled     *bool          `json:"enabled"`
}

// ToRule builds a rule owned by elementID from the input.
func (in RuleInput) ToRule(elementID int64) *Rule {
	r := &Rule{
		ElementID:   elementID,
		Name:        in.Name,
		Description: cloneString(in.Description),
		RuleType:    in.RuleType,
		RuleConfig:  in.RuleConfig,
		Severity:    in.Severity,
		Enabled:     true,
	}
	if in.Enabled != nil {
		r.Enabled = *in.Enabled
	}
	if r.RuleConfig == nil {
		r.RuleConfig = map[string]any{}
	}
	return r
}

type RulePatch struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	RuleType    *string        `json:"ruleType"`
	RuleConfig  map[string]any `json:"ruleConfig"`
	Severity    *string        `json:"severity"`
	Enabled     *bool          `json:"enabled"`
}

func (r *Rule) Validate() error {
	if err := requireText("name", r.Name); err != nil {
		return err
	}
	if err := requireText("ruleType", r.RuleType); err != nil {
		return err
	}
	return requireText("severity", r.Severity)
}

func (p RulePatch) Apply(r *Rule) {
	setText(&r.Name, p.Name)
	setOptional(&r.Description, p.Description)
	setText(&r.RuleType, p.RuleType)
	setText(&r.Severity, p.Severity)
	if p.RuleConfig != nil {
		r.RuleConfig = p.RuleConfig
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
}

func (r *Rule) Clone() *Rule {
	out := *r
	out.Description = cloneString(r.Description)
	out.RuleConfig = CloneJSONObject(r.RuleConfig)
	return &out
}

// CloneJSONObject deep-copies a decoded JSON object.
func CloneJSONObject(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneJSONValue(v)
	}
	return out
}

func cloneJSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneJSONObject(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return val
	}
}
