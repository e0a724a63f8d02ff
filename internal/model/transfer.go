package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// timestampLayouts lists the accepted added_date formats, tried in order.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidationError reports input that does not match PantryItemInput.
// Fields maps the JSON field name to a human-readable problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// PantryItemInput is the shape a caller may supply on create and update.
// It has no id: identifiers are always assigned by storage.
type PantryItemInput struct {
	Name      string  `json:"name" validate:"required,notblank"`
	Quantity  *int32  `json:"quantity"`
	Unit      *string `json:"unit"`
	AddedDate string  `json:"added_date" validate:"required,timestamp"`
	Barcode   *string `json:"barcode"`
}

// PantryItemOutput is the shape returned to callers.
type PantryItemOutput struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	AddedDate time.Time `json:"added_date"`
	Barcode   *string   `json:"barcode"`
}

// DecodePantryItemInput strictly decodes a JSON body. Malformed JSON, unknown
// fields and wrong primitive types are reported as *ValidationError.
// Field-level rules are checked separately by Validate.
func DecodePantryItemInput(body []byte) (PantryItemInput, error) {
	var in PantryItemInput

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return PantryItemInput{}, decodeError(err)
	}
	if dec.More() {
		return PantryItemInput{}, &ValidationError{Message: "request body must contain a single JSON object"}
	}
	return in, nil
}

func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return &ValidationError{Message: "request body must be a JSON object"}
		}
		return &ValidationError{
			Message: "invalid field type",
			Fields:  map[string]string{field: "must be " + describeKind(typeErr.Type)},
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Message: "malformed JSON body"}
	case errors.Is(err, io.EOF):
		return &ValidationError{Message: "request body is required"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &ValidationError{
			Message: "unknown field",
			Fields:  map[string]string{field: "is not allowed"},
		}
	}
	return &ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
}

func describeKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "a 32-bit integer"
	case reflect.Struct:
		return "an object"
	}
	return "a " + t.Kind().String()
}

// Validate checks required fields and formats.
func (in PantryItemInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: "validation failed"}
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "timestamp":
		return "must be an RFC3339 timestamp or YYYY-MM-DD[THH:MM:SS] date"
	}
	return "is invalid"
}

// ParseTimestamp parses an added_date value using the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ToEntity maps a validated input onto a new PantryItem, applying defaults.
func (in PantryItemInput) ToEntity() (PantryItem, error) {
	added, err := ParseTimestamp(in.AddedDate)
	if err != nil {
		return PantryItem{}, &ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"added_date": "must be an RFC3339 timestamp or YYYY-MM-DD[THH:MM:SS] date"},
		}
	}

	// Values are stored verbatim so a read returns exactly what was sent.
	// Only blank unit and barcode fall back to their defaults.
	item := PantryItem{
		Name:      in.Name,
		Quantity:  DefaultQuantity,
		Unit:      DefaultUnit,
		AddedDate: added,
	}
	if in.Quantity != nil {
		item.Quantity = int(*in.Quantity)
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		item.Unit = *in.Unit
	}
	if in.Barcode != nil && strings.TrimSpace(*in.Barcode) != "" {
		code := *in.Barcode
		item.Barcode = &code
	}
	return item, nil
}

// ApplyTo overwrites every caller-controlled field of item. The id is left untouched.
func (in PantryItemInput) ApplyTo(item *PantryItem) error {
	next, err := in.ToEntity()
	if err != nil {
		return err
	}
	item.Name = next.Name
	item.Quantity = next.Quantity
	item.Unit = next.Unit
	item.AddedDate = next.AddedDate
	item.Barcode = next.Barcode
	return nil
}

// NewPantryItemOutput maps a stored item to its output shape.
func NewPantryItemOutput(item PantryItem) PantryItemOutput {
	return PantryItemOutput{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		AddedDate: item.AddedDate.UTC(),
		Barcode:   item.Barcode,
	}
}

// NewPantryItemOutputs maps a slice of items, never returning nil.
func NewPantryItemOutputs(items []PantryItem) []PantryItemOutput {
	out := make([]PantryItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, NewPantryItemOutput(item))
	}
	return out
}
