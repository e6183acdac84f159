package forms

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewRecordOrdersFieldsByTemplate(t *testing.T) {
	record := NewRecord("contactForm", "secret", map[string]any{
		"message": "Hello there, nice to meet you.",
		"name":    "Ada Lovelace",
		"subject": "Hi",
		"email":   "ada@example.com",
		"phone":   "+15551234567",
	})

	want := []string{"name", "email", "phone", "subject", "message"}
	if len(record.Fields) != len(want) {
		t.Fatalf("fields = %d, want %d", len(record.Fields), len(want))
	}
	for i, name := range want {
		if record.Fields[i].Name != name {
			t.Fatalf("field %d = %s, want %s", i, record.Fields[i].Name, name)
		}
	}
}

func TestNewRecordParsesISODates(t *testing.T) {
	record := NewRecord("studentBio", "secret", map[string]any{
		"fullName": "Ada Lovelace",
		"dob":      "2003-05-14",
	})

	value, ok := record.Get("dob")
	if !ok {
		t.Fatal("dob missing")
	}
	if value.Kind() != ValueDate {
		t.Fatalf("dob kind = %d, want date", value.Kind())
	}
	if got := value.Date(); got.Year() != 2003 || got.Month() != time.May || got.Day() != 14 {
		t.Fatalf("dob = %v", got)
	}
}

func TestNewRecordUnknownTemplate(t *testing.T) {
	record := NewRecord("nope", "secret", map[string]any{"name": "Ada"})
	if len(record.Fields) != 0 {
		t.Fatalf("fields = %d, want 0", len(record.Fields))
	}
	if err := Validate(record); err == nil {
		t.Fatal("expected validation failure for unknown template")
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	record := NewRecord("studentBio", "secret", map[string]any{
		"fullName": "Ada Lovelace",
		"dob":      "2003-05-14",
	})
	record.Fields = append(record.Fields, Field{Name: "subscribe", Value: BoolValue(true)})

	encoded, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{
		`"templateId":"studentBio"`,
		`"name":"dob","value":"2003-05-14"`,
		`"name":"subscribe","value":true`,
	} {
		if !strings.Contains(string(encoded), want) {
			t.Fatalf("json %s missing %s", encoded, want)
		}
	}
}

func TestDisplayNamePrefersFullName(t *testing.T) {
	record := &Record{Fields: []Field{
		{Name: "name", Value: StringValue("Short")},
		{Name: "fullName", Value: StringValue("Ada Lovelace")},
	}}
	if got := record.DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := (&Record{}).DisplayName(); got != "Untitled" {
		t.Fatalf("empty DisplayName = %q", got)
	}
}
