package forms

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ValueKind identifies the renderable type of a field value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueBool
	ValueDate
)

// Value is a tagged union of the value types a form field can carry.
type Value struct {
	kind ValueKind
	str  string
	b    bool
	date time.Time
}

// StringValue wraps a plain string.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// BoolValue wraps a checkbox state.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// DateValue wraps a calendar date.
func DateValue(t time.Time) Value { return Value{kind: ValueDate, date: t} }

// ValueOf coerces an arbitrary decoded value (TOML, JSON) into a Value.
// Unrenderable types fall back to their natural string form.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return StringValue("")
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	case time.Time:
		return DateValue(val)
	case toml.LocalDate:
		return DateValue(val.AsTime(time.UTC))
	default:
		return StringValue(fmt.Sprint(val))
	}
}

// Kind reports the value's renderable type.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value should be omitted from serialization.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueString:
		return v.str == ""
	case ValueDate:
		return v.date.IsZero()
	default:
		return false
	}
}

// Bool returns the boolean payload; false for non-bool values.
func (v Value) Bool() bool { return v.kind == ValueBool && v.b }

// Date returns the date payload; zero for non-date values.
func (v Value) Date() time.Time {
	if v.kind != ValueDate {
		return time.Time{}
	}
	return v.date
}

// Text returns the string payload for string values, empty otherwise.
func (v Value) Text() string {
	if v.kind != ValueString {
		return ""
	}
	return v.str
}

// MarshalJSON renders the value in its natural JSON form: strings as strings,
// checkboxes as booleans, dates as ISO dates.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueBool:
		return json.Marshal(v.b)
	case ValueDate:
		return json.Marshal(v.date.Format("2006-01-02"))
	default:
		return json.Marshal(v.str)
	}
}

// Field is one named value inside a record. Slice position fixes the
// serialization order.
type Field struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Record is a validated form submission: a template selection, the gating
// password, and the ordered field values.
type Record struct {
	TemplateID string  `json:"templateId"`
	Password   string  `json:"password"`
	Fields     []Field `json:"fields"`
}

// NewRecord builds a record from loosely typed field values (decoded TOML or
// JSON), ordering fields as the template declares them so serialization is
// deterministic. Date fields given as ISO strings are parsed. Unknown
// templates produce a bare record that Validate rejects.
func NewRecord(templateID, password string, values map[string]any) *Record {
	record := &Record{TemplateID: templateID, Password: password}
	tmpl, ok := Lookup(templateID)
	if !ok {
		return record
	}
	for _, spec := range tmpl.Fields {
		if spec.Name == "password" {
			continue
		}
		raw, present := values[spec.Name]
		if !present {
			continue
		}
		value := ValueOf(raw)
		if spec.Kind == KindDate && value.Kind() == ValueString {
			if parsed, err := time.Parse("2006-01-02", value.Text()); err == nil {
				value = DateValue(parsed)
			}
		}
		record.Fields = append(record.Fields, Field{Name: spec.Name, Value: value})
	}
	return record
}

// Get returns the value for the named field.
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// DisplayName picks a human-friendly name for history listings, preferring
// fullName over name, matching how history entries were titled originally.
func (r *Record) DisplayName() string {
	for _, key := range []string{"fullName", "name"} {
		if v, ok := r.Get(key); ok {
			if text := strings.TrimSpace(v.Text()); text != "" {
				return text
			}
		}
	}
	return "Untitled"
}
