package forms

// FieldKind describes the input widget a field definition expects.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindPassword FieldKind = "password"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindRadio    FieldKind = "radio"
	KindCheckbox FieldKind = "checkbox"
)

// FieldSpec defines one input field of a template.
type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	MinLen   int       `json:"min_len,omitempty"`
}

// Template is a named, fixed set of input fields for one form category.
type Template struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Fields []FieldSpec `json:"fields"`
}

const passwordMinLen = 6

var passwordField = FieldSpec{Name: "password", Label: "Password", Kind: KindPassword, Required: true, MinLen: passwordMinLen}

var templates = []Template{
	{
		ID:    "studentBio",
		Label: "Student Bio",
		Fields: []FieldSpec{
			passwordField,
			{Name: "fullName", Label: "Full Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "dob", Label: "Date of Birth", Kind: KindDate, Required: true},
			{Name: "gender", Label: "Gender", Kind: KindRadio, Required: true, Options: []string{"Male", "Female", "Other"}},
			{Name: "phone", Label: "Phone Number", Kind: KindTel, Required: true},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Name: "enrollmentNumber", Label: "Enrollment Number", Kind: KindText, Required: true},
			{Name: "courseDepartment", Label: "Course/Department", Kind: KindText, Required: true, MinLen: 2},
			{Name: "address", Label: "Address", Kind: KindTextarea, Required: true, MinLen: 5},
		},
	},
	{
		ID:    "jobApplication",
		Label: "Job Application",
		Fields: []FieldSpec{
			passwordField,
			{Name: "fullName", Label: "Full Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Phone Number", Kind: KindTel, Required: true},
			{Name: "position", Label: "Position Applied For", Kind: KindText, Required: true, MinLen: 2},
			{Name: "experience", Label: "Experience (Years)", Kind: KindText, Required: true},
			{Name: "resumeAttached", Label: "Resume Attached", Kind: KindCheckbox},
			{Name: "skills", Label: "Skills", Kind: KindTextarea, Required: true, MinLen: 5},
			{Name: "coverLetter", Label: "Cover Letter", Kind: KindTextarea},
		},
	},
	{
		ID:    "eventRegistration",
		Label: "Event Registration",
		Fields: []FieldSpec{
			passwordField,
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Phone Number", Kind: KindTel, Required: true},
			{Name: "eventName", Label: "Event Name", Kind: KindText, Required: true, MinLen: 2},
			{Name: "preferredSlot", Label: "Preferred Slot", Kind: KindText, Required: true, MinLen: 2},
			{Name: "paymentMethod", Label: "Payment Method", Kind: KindRadio, Required: true, Options: []string{"Online", "Offline"}},
		},
	},
	{
		ID:    "contactForm",
		Label: "Contact Form",
		Fields: []FieldSpec{
			passwordField,
			{Name: "name", Label: "Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Name: "phone", Label: "Phone Number", Kind: KindTel, Required: true},
			{Name: "subject", Label: "Subject", Kind: KindText, Required: true, MinLen: 2},
			{Name: "message", Label: "Message", Kind: KindTextarea, Required: true, MinLen: 10},
		},
	},
	{
		ID:    "collegeAdmission",
		Label: "College Admission",
		Fields: []FieldSpec{
			passwordField,
			{Name: "fullName", Label: "Full Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "dob", Label: "Date of Birth", Kind: KindDate, Required: true},
			{Name: "gender", Label: "Gender", Kind: KindRadio, Required: true, Options: []string{"Male", "Female", "Other"}},
			{Name: "fatherName", Label: "Father's Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "motherName", Label: "Mother's Name", Kind: KindText, Required: true, MinLen: 3},
			{Name: "phone", Label: "Phone Number", Kind: KindTel, Required: true},
			{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
			{Name: "courseApplied", Label: "Course Applied", Kind: KindText, Required: true, MinLen: 2},
			{Name: "prevQualification", Label: "Previous Qualification", Kind: KindText, Required: true, MinLen: 2},
			{Name: "marks", Label: "Marks Obtained (%)", Kind: KindText, Required: true},
			{Name: "address", Label: "Address", Kind: KindTextarea, Required: true, MinLen: 5},
		},
	},
}

// Templates returns the built-in template registry in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Lookup returns the template with the given identifier.
func Lookup(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Label resolves a template identifier to its human label. Unknown
// identifiers yield "Unknown" so serialization never fails on a stale ID.
func Label(id string) string {
	if t, ok := Lookup(id); ok {
		return t.Label
	}
	return "Unknown"
}
