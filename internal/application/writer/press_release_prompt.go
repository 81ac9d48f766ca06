package writer

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/domain/repository"
	workflowprompt "civic-writer-api/internal/workflow/prompt"
	apperrors "civic-writer-api/pkg/errors"
	"civic-writer-api/pkg/metrics"
	"civic-writer-api/pkg/tracer"
)

var pressReleaseFields = map[string]struct{}{
	"title":   {},
	"person":  {},
	"contact": {},
	"content": {},
}

// PressReleaseAssembler fills the press-release template with form values.
// The template is read through the source on every call.
type PressReleaseAssembler struct {
	source   repository.TemplateSource
	template string
}

func NewPressReleaseAssembler(source repository.TemplateSource, template string) *PressReleaseAssembler {
	return &PressReleaseAssembler{source: source, template: template}
}

// Build returns a LoadError (CodeTemplateLoadFailed) when the template cannot
// be read and a FormatError (CodeTemplateFormatFailed) when it references a
// field other than title, person, contact and content.
func (a *PressReleaseAssembler) Build(ctx context.Context, req entity.PressReleaseRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "writer.PressReleaseAssembler.Build")
	defer span.End()
	span.SetAttributes(attribute.String("template.name", a.template))

	text, err := a.source.Load(ctx, a.template)
	if err != nil {
		metrics.TemplateLoadTotal.WithLabelValues(a.template, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "template load failed")
		return "", apperrors.ErrTemplateLoadFailed.WithError(err).WithDetail(a.template)
	}
	metrics.TemplateLoadTotal.WithLabelValues(a.template, "success").Inc()

	if err := validateTemplateFields(text, pressReleaseFields); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "template format failed")
		return "", apperrors.ErrTemplateFormatFailed.WithError(err).WithDetail(err.Error())
	}

	out, err := workflowprompt.Render(ctx, text, req.Vars())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "template format failed")
		return "", apperrors.ErrTemplateFormatFailed.WithError(err).WithDetail(err.Error())
	}
	return out, nil
}

// validateTemplateFields scans format fields the way str.format does:
// "{{" and "}}" are literal braces, "{name}" or "{name:spec}" is a field.
func validateTemplateFields(text string, allowed map[string]struct{}) error {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("unclosed '{' at offset %d", i)
			}
			field := text[i+1 : i+1+end]
			if strings.ContainsRune(field, '{') {
				return fmt.Errorf("nested '{' in field at offset %d", i)
			}
			name := field
			if cut := strings.IndexAny(name, "!:.["); cut >= 0 {
				name = name[:cut]
			}
			if _, ok := allowed[name]; !ok {
				return fmt.Errorf("unknown placeholder {%s}", name)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i++
				continue
			}
			return fmt.Errorf("single '}' at offset %d", i)
		}
	}
	return nil
}
