package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/go-playground/validator/v10"
)

// AttributeKind classifies a hyperparameter.
type AttributeKind string

const (
	// Numeric attributes are binned and padded on a continuous axis.
	Numeric AttributeKind = "numeric"
	// Categorical attributes are encoded as integer codes 1..n.
	Categorical AttributeKind = "categorical"
)

// schemaValidate checks struct tags on schema types.
var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
	if err := schemaValidate.RegisterValidation("attrkind", validateAttributeKind); err != nil {
		panic(fmt.Sprintf("metadata: register attrkind validation: %v", err))
	}
}

func validateAttributeKind(fl validator.FieldLevel) bool {
	switch AttributeKind(fl.Field().String()) {
	case Numeric, Categorical:
		return true
	default:
		return false
	}
}

// AttributeDescriptor describes one hyperparameter.
//
// Values is the explicit domain. It is required for numeric hyperparameters
// and used for sorting categorical ones.
type AttributeDescriptor struct {
	Name   string        `json:"name" yaml:"name" validate:"required"`
	Kind   AttributeKind `json:"type" yaml:"type" validate:"attrkind"`
	Values []Value       `json:"values,omitempty" yaml:"-"`
}

type attributeJSON struct {
	Name   string        `json:"name"`
	Kind   AttributeKind `json:"type"`
	Values []any         `json:"values,omitempty"`
}

// MarshalJSON writes domain values as plain JSON scalars.
func (a AttributeDescriptor) MarshalJSON() ([]byte, error) {
	aux := attributeJSON{Name: a.Name, Kind: a.Kind}
	if len(a.Values) > 0 {
		aux.Values = make([]any, len(a.Values))
		for i, v := range a.Values {
			aux.Values[i] = v.Any()
		}
	}
	return json.Marshal(aux)
}

// UnmarshalJSON reads the {name, type, values} metadata shape.
func (a *AttributeDescriptor) UnmarshalJSON(data []byte) error {
	var aux attributeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	values := make([]Value, 0, len(aux.Values))
	for _, raw := range aux.Values {
		v, err := FromAny(raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", aux.Name, err)
		}
		values = append(values, v)
	}
	a.Name = aux.Name
	a.Kind = aux.Kind
	a.Values = values
	return nil
}

// IsCategorical reports whether the attribute is categorical.
func (a AttributeDescriptor) IsCategorical() bool {
	return a.Kind == Categorical
}

// SortedValues returns a sorted, de-duplicated copy of the domain.
func (a AttributeDescriptor) SortedValues() []Value {
	out := slices.Clone(a.Values)
	slices.SortStableFunc(out, Compare)
	return slices.CompactFunc(out, Equal)
}

// Schema declares the hyperparameters and objectives of a dataset.
type Schema struct {
	Hyperparameters []AttributeDescriptor `json:"hyperparameters" validate:"dive"`
	Objectives      []string              `json:"objectives" validate:"dive,required"`
}

// Validate checks the schema itself, independent of any records.
func (s *Schema) Validate() error {
	if err := schemaValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	seen := make(map[string]struct{}, len(s.Hyperparameters)+len(s.Objectives))
	for _, name := range s.Attributes() {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateAttribute, name)
		}
		seen[name] = struct{}{}
	}

	for _, h := range s.Hyperparameters {
		if h.Kind == Numeric && len(h.Values) == 0 {
			return &MissingDomainError{Attribute: h.Name}
		}
	}
	return nil
}

// Attributes returns hyperparameter names followed by objectives, in schema order.
func (s *Schema) Attributes() []string {
	out := make([]string, 0, len(s.Hyperparameters)+len(s.Objectives))
	for _, h := range s.Hyperparameters {
		out = append(out, h.Name)
	}
	return append(out, s.Objectives...)
}

// Hyperparameter returns the descriptor of the named hyperparameter.
func (s *Schema) Hyperparameter(name string) (AttributeDescriptor, bool) {
	for _, h := range s.Hyperparameters {
		if h.Name == name {
			return h, true
		}
	}
	return AttributeDescriptor{}, false
}

// IsHyperparameter reports whether name is a declared hyperparameter.
func (s *Schema) IsHyperparameter(name string) bool {
	_, ok := s.Hyperparameter(name)
	return ok
}

// IsObjective reports whether name is a declared objective.
func (s *Schema) IsObjective(name string) bool {
	return slices.Contains(s.Objectives, name)
}

// IsCategorical reports whether name is a categorical hyperparameter.
// Objectives are always numeric.
func (s *Schema) IsCategorical(name string) bool {
	h, ok := s.Hyperparameter(name)
	return ok && h.IsCategorical()
}

// Categoricals returns the names of categorical hyperparameters in schema order.
func (s *Schema) Categoricals() []string {
	var out []string
	for _, h := range s.Hyperparameters {
		if h.IsCategorical() {
			out = append(out, h.Name)
		}
	}
	return out
}

// ValidateRecord checks that rec holds every attribute, that numeric
// attributes hold numbers and that no attribute holds NaN or an infinity.
func (s *Schema) ValidateRecord(rec *Record) error {
	for _, name := range s.Attributes() {
		v, ok := rec.Fields[name]
		if !ok {
			return &MissingFieldError{Attribute: name, RecordID: rec.ID}
		}
		if !s.IsCategorical(name) && !v.IsNumber() {
			return &InvalidValueError{Attribute: name, RecordID: rec.ID, Kind: v.Kind}
		}
		if f, ok := v.Number(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return &InvalidValueError{Attribute: name, RecordID: rec.ID, Kind: v.Kind, NonFinite: true}
		}
	}
	return nil
}

// SchemaFromJSON decodes the {hyperparameters, objectives} metadata document
// and validates it.
func SchemaFromJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
