package model

// GenerationInput is one chat completion request of a writer flow.
type GenerationInput struct {
	Flow string

	// RoleInstruction is sent as the system message, Prompt as the user message.
	RoleInstruction string
	Prompt          string

	Provider string
	Model    string

	Temperature *float32
}

type GenerationOutput struct {
	Content string
	Meta    LLMUsageMeta
}
