package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	// PromptGenerationV1 wraps a role instruction and a finished prompt.
	PromptGenerationV1 PromptID = "generation_v1"
)

type RoleID string

const (
	RoleSpeech       RoleID = "speech"
	RolePressRelease RoleID = "press_release"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}
	system, err := readEmbeddedText(systemPath)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

// RoleInstruction returns the fixed system instruction of a flow.
func RoleInstruction(id RoleID) (string, error) {
	switch id {
	case RoleSpeech:
		return readEmbeddedText("templates/speech.system.txt")
	case RolePressRelease:
		return readEmbeddedText("templates/press_release.system.txt")
	default:
		return "", fmt.Errorf("unknown role id: %s", id)
	}
}

// Render substitutes vars into a single FString text template.
func Render(ctx context.Context, text string, vars map[string]any) (string, error) {
	tpl := einoprompt.FromMessages(schema.FString, schema.UserMessage(text))
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("template rendered no message")
	}
	return msgs[0].Content, nil
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptGenerationV1:
		return "templates/generation.system.txt", "templates/generation.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
