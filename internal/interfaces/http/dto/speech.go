package dto

import "civic-writer-api/internal/domain/entity"

// SpeechSelection is the speech form. Empty selections take the form defaults.
type SpeechSelection struct {
	Title          string `json:"title" form:"title"`
	Greeting       string `json:"greeting" form:"greeting"`
	Speaker        string `json:"speaker" form:"speaker"`
	Audience       string `json:"audience" form:"audience"`
	SecondAudience string `json:"second_audience" form:"second_audience"`
	Season         string `json:"season" form:"season"`
	Quote          string `json:"quote" form:"quote"`
	Disaster       string `json:"disaster" form:"disaster"`
}

func (r *SpeechSelection) ToEntity() entity.SpeechRequest {
	return entity.SpeechRequest{
		Title:          r.Title,
		Greeting:       entity.GreetingType(r.Greeting),
		Speaker:        entity.Speaker(r.Speaker),
		Audience:       entity.Audience(r.Audience),
		SecondAudience: entity.SecondAudience(r.SecondAudience),
		Season:         entity.Season(r.Season),
		Quote:          entity.QuoteStyle(r.Quote),
		Disaster:       entity.DisasterContext(r.Disaster),
	}
}

type SpeechPromptResponse struct {
	Prompt string `json:"prompt"`
}

// SpeechGenerateRequest submits the (possibly edited) speech prompt.
type SpeechGenerateRequest struct {
	Prompt         string `json:"prompt" form:"prompt" binding:"required"`
	PreviousResult string `json:"previous_result,omitempty" form:"previous_result"`
}
