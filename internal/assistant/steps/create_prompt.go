package steps

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

type CreatePrompt struct {
	tmpl        *template.Template
	guideKey    string
	questionKey string
	promptKey   string
}

func NewCreatePrompt(tmpl *template.Template, guideKey, questionKey, promptKey string) (CreatePrompt, error) {
	var s CreatePrompt

	if tmpl == nil {
		return s, fmt.Errorf("tmpl is nil")
	}
	if guideKey == "" {
		return s, fmt.Errorf("guideKey is empty")
	}
	if questionKey == "" {
		return s, fmt.Errorf("questionKey is empty")
	}
	if promptKey == "" {
		return s, fmt.Errorf("promptKey is empty")
	}

	return CreatePrompt{
		tmpl:        tmpl,
		guideKey:    guideKey,
		questionKey: questionKey,
		promptKey:   promptKey,
	}, nil
}

func (s CreatePrompt) Name() string {
	return "create_prompt"
}

func (s CreatePrompt) Run(_ context.Context, dataCtx DataContext) error {
	guide, ok := dataCtx[s.guideKey]
	if !ok {
		return fmt.Errorf("key[%s] not found in data context", s.guideKey)
	}

	question, ok := dataCtx[s.questionKey]
	if !ok {
		return fmt.Errorf("key[%s] not found in data context", s.questionKey)
	}

	templateData := map[string]string{
		"Guide":    guide,
		"Question": question,
	}

	var output strings.Builder
	if err := s.tmpl.Execute(&output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute: %w", err)
	}

	dataCtx[s.promptKey] = output.String()

	return nil
}
