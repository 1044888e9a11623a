package extraction

import "fmt"

const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldSkills     = "skills"
	FieldEducation  = "education"
	FieldExperience = "experience"
)

// Warning reports a field that could not be determined. The field is left empty and the
// record is still produced.
type Warning struct {
	Filename string
	Field    string
}

func (w Warning) Error() string {
	return fmt.Sprintf("extraction warning: %s: %s not found", w.Filename, w.Field)
}

// Fields returns the field names of the given warnings, in order.
func Fields(warnings []Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Field)
	}
	return out
}
