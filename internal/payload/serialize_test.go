package payload

import (
	"strings"
	"testing"
	"time"

	"qrsafe/internal/forms"
)

func sampleRecord() *forms.Record {
	return &forms.Record{
		TemplateID: "studentBio",
		Password:   "secret123",
		Fields: []forms.Field{
			{Name: "fullName", Value: forms.StringValue("Guhan S")},
			{Name: "dob", Value: forms.DateValue(time.Date(2003, time.May, 14, 0, 0, 0, 0, time.UTC))},
			{Name: "resumeAttached", Value: forms.BoolValue(true)},
			{Name: "middleName", Value: forms.StringValue("")},
			{Name: "notes", Value: forms.StringValue("line one\nline two")},
		},
	}
}

func TestSerializeShape(t *testing.T) {
	got := Serialize(sampleRecord())
	want := "Password: secret123\n" +
		"Form Type: Student Bio\n" +
		"\n" +
		"Full Name: Guhan S\n" +
		"Dob: May 14th, 2003\n" +
		"Resume Attached: Yes\n" +
		"Notes: line one\nline two\n"
	if got != want {
		t.Fatalf("unexpected payload:\n got: %q\nwant: %q", got, want)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	record := sampleRecord()
	first := Serialize(record)
	second := Serialize(record)
	if first != second {
		t.Fatal("expected identical output for unmodified record")
	}
}

func TestSerializeOmitsEmptyAndReserved(t *testing.T) {
	record := &forms.Record{
		TemplateID: "contactForm",
		Password:   "secret123",
		Fields: []forms.Field{
			{Name: "password", Value: forms.StringValue("leak-me")},
			{Name: "templateId", Value: forms.StringValue("contactForm")},
			{Name: "formType", Value: forms.StringValue("contactForm")},
			{Name: "name", Value: forms.StringValue("Guhan")},
			{Name: "subject", Value: forms.StringValue("")},
		},
	}
	got := Serialize(record)
	if strings.Contains(got, "leak-me") {
		t.Fatalf("password value leaked as field line:\n%s", got)
	}
	if strings.Contains(got, "Template Id") || strings.Contains(got, "Form Type: contactForm") {
		t.Fatalf("reserved keys emitted as field lines:\n%s", got)
	}
	if strings.Contains(got, "Subject") {
		t.Fatalf("empty field emitted:\n%s", got)
	}
	if !strings.Contains(got, "Name: Guhan\n") {
		t.Fatalf("expected normal field line:\n%s", got)
	}
}

func TestSerializeUnknownTemplateLabel(t *testing.T) {
	record := &forms.Record{TemplateID: "ghost", Password: "secret123"}
	got := Serialize(record)
	if !strings.Contains(got, "Form Type: Unknown\n") {
		t.Fatalf("expected Unknown label:\n%s", got)
	}
}

func TestFieldLabel(t *testing.T) {
	cases := map[string]string{
		"fullName":          "Full Name",
		"name":              "Name",
		"dob":               "Dob",
		"prevQualification": "Prev Qualification",
		"courseDepartment":  "Course Department",
	}
	for in, want := range cases {
		if got := FieldLabel(in); got != want {
			t.Fatalf("FieldLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatLongDateOrdinals(t *testing.T) {
	cases := map[int]string{
		1:  "January 1st, 2024",
		2:  "January 2nd, 2024",
		3:  "January 3rd, 2024",
		4:  "January 4th, 2024",
		11: "January 11th, 2024",
		12: "January 12th, 2024",
		13: "January 13th, 2024",
		21: "January 21st, 2024",
		22: "January 22nd, 2024",
		31: "January 31st, 2024",
	}
	for day, want := range cases {
		got := formatLongDate(time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC))
		if got != want {
			t.Fatalf("day %d rendered %q, want %q", day, got, want)
		}
	}
}
