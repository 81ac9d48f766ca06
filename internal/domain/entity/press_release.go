package entity

// PressReleaseRequest holds the free-text fields of the press-release form.
// Blank fields are valid and substitute as empty strings.
type PressReleaseRequest struct {
	Title   string
	Person  string
	Contact string
	Content string
}

// Vars returns the template variables. All four keys are always present and
// values are substituted verbatim.
func (r PressReleaseRequest) Vars() map[string]any {
	return map[string]any{
		"title":   r.Title,
		"person":  r.Person,
		"contact": r.Contact,
		"content": r.Content,
	}
}
