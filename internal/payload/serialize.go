package payload

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"qrsafe/internal/forms"
)

// Serialize renders a record into the line-oriented payload text:
//
//	Password: <password>
//	Form Type: <label>
//	<blank>
//	<Field Label>: <value>   (one line per non-empty field)
//
// Output is deterministic for an unmodified record: field lines follow the
// record's field order, and password/templateId never appear as field lines.
// Serialize never fails; unrenderable values are coerced to strings upstream.
func Serialize(record *forms.Record) string {
	var b strings.Builder
	b.WriteString("Password: ")
	b.WriteString(record.Password)
	b.WriteByte('\n')
	b.WriteString("Form Type: ")
	b.WriteString(forms.Label(record.TemplateID))
	b.WriteString("\n\n")

	for _, field := range record.Fields {
		if field.Name == "password" || field.Name == "templateId" || field.Name == "formType" {
			continue
		}
		if field.Value.IsEmpty() {
			continue
		}
		b.WriteString(FieldLabel(field.Name))
		b.WriteString(": ")
		b.WriteString(renderValue(field.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

// FieldLabel derives a display label from a camelCase field name: a space is
// inserted before each internal capital and the first letter is upper-cased.
// "fullName" becomes "Full Name".
func FieldLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func renderValue(v forms.Value) string {
	switch v.Kind() {
	case forms.ValueBool:
		if v.Bool() {
			return "Yes"
		}
		return "No"
	case forms.ValueDate:
		return formatLongDate(v.Date())
	default:
		return v.Text()
	}
}

// formatLongDate renders "May 14th, 2003" style dates.
func formatLongDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month().String(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
