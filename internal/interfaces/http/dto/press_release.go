package dto

import "civic-writer-api/internal/domain/entity"

// PressReleaseForm is the press-release form. Blank fields are allowed.
type PressReleaseForm struct {
	Title          string `json:"title" form:"title"`
	Person         string `json:"person" form:"person"`
	Contact        string `json:"contact" form:"contact"`
	Content        string `json:"content" form:"content"`
	PreviousResult string `json:"previous_result,omitempty" form:"previous_result"`
}

func (r *PressReleaseForm) ToEntity() entity.PressReleaseRequest {
	return entity.PressReleaseRequest{
		Title:   r.Title,
		Person:  r.Person,
		Contact: r.Contact,
		Content: r.Content,
	}
}

type PressReleasePromptResponse struct {
	Prompt string `json:"prompt"`
}
