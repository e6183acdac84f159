package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"qrsafe/internal/services"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
)

// Validate checks a record against its template definition: template
// existence, required fields, minimum lengths, email/phone shape, and radio
// option membership. All failures are tagged services.ErrValidation.
func Validate(record *Record) error {
	if record == nil {
		return services.Wrap(services.ErrValidation, "forms", "validate", "record is nil", nil)
	}
	tmpl, ok := Lookup(record.TemplateID)
	if !ok {
		return services.Wrap(services.ErrValidation, "forms", "validate",
			fmt.Sprintf("unknown template %q", record.TemplateID), nil)
	}
	if utf8.RuneCountInString(record.Password) < passwordMinLen {
		return services.Wrap(services.ErrValidation, "forms", "validate",
			fmt.Sprintf("password must be at least %d characters", passwordMinLen), nil)
	}

	for _, spec := range tmpl.Fields {
		if spec.Name == "password" {
			continue
		}
		if err := validateField(record, spec); err != nil {
			return err
		}
	}
	return nil
}

func validateField(record *Record, spec FieldSpec) error {
	value, present := record.Get(spec.Name)
	if !present || value.IsEmpty() {
		if spec.Required {
			return fieldError(spec, "is required")
		}
		return nil
	}

	switch spec.Kind {
	case KindEmail:
		if !emailPattern.MatchString(strings.TrimSpace(value.Text())) {
			return fieldError(spec, "must be a valid email address")
		}
	case KindTel:
		if !phonePattern.MatchString(strings.TrimSpace(value.Text())) {
			return fieldError(spec, "must be a valid mobile number")
		}
	case KindRadio:
		text := value.Text()
		for _, opt := range spec.Options {
			if text == opt {
				return nil
			}
		}
		return fieldError(spec, fmt.Sprintf("must be one of %s", strings.Join(spec.Options, ", ")))
	case KindDate:
		if value.Kind() != ValueDate {
			return fieldError(spec, "must be a date")
		}
	}

	if spec.MinLen > 0 && value.Kind() == ValueString {
		if utf8.RuneCountInString(strings.TrimSpace(value.Text())) < spec.MinLen {
			return fieldError(spec, fmt.Sprintf("must be at least %d characters", spec.MinLen))
		}
	}
	return nil
}

func fieldError(spec FieldSpec, reason string) error {
	return services.Wrap(services.ErrValidation, "forms", "validate",
		fmt.Sprintf("%s %s", spec.Label, reason), nil)
}
