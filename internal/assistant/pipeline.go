// Package assistant answers shopper questions with an LLM restricted to the
// storefront guide.
package assistant

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/nikolayk812/storefront/internal/assistant/steps"
	"github.com/tmc/langchaingo/llms"
)

var ErrEmptyQuestion = errors.New("question is empty")

//go:embed data/prompt.tmpl
var promptTemplate string

const (
	guideKey       = "guide"
	questionKey    = "question"
	promptKey      = "prompt"
	answerKey      = "answer"
	replyKey       = "reply"
)

// DefaultMaxTokens keeps replies to a few short paragraphs.
const DefaultMaxTokens = 512

type Pipeline struct {
	steps []steps.Step
}

type options struct {
	settings steps.ModelSettings
	log      *slog.Logger
}

type Option func(*options)

// WithModel overrides the client's default model per request.
func WithModel(model string) Option {
	return func(o *options) {
		o.settings.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.settings.MaxTokens = n
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func NewPipeline(llm llms.Model, guidePath string, opts ...Option) (Pipeline, error) {
	var p Pipeline

	if llm == nil {
		return p, fmt.Errorf("llm is nil")
	}

	o := options{
		settings: steps.ModelSettings{MaxTokens: DefaultMaxTokens},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	pSteps, err := buildSteps(llm, guidePath, o)
	if err != nil {
		return p, fmt.Errorf("buildSteps: %w", err)
	}

	return Pipeline{steps: pSteps}, nil
}

// Ask runs every step against a fresh data context and returns the reply.
func (p Pipeline) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	dataCtx := steps.DataContext{questionKey: question}

	for idx, step := range p.steps {
		if err := step.Run(ctx, dataCtx); err != nil {
			return "", fmt.Errorf("step.Run[%d][%s]: %w", idx, step.Name(), err)
		}
	}

	return dataCtx[replyKey], nil
}

func buildSteps(llm llms.Model, guidePath string, o options) ([]steps.Step, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("template.Parse: %w", err)
	}

	var results []steps.Step

	step0, err := steps.NewLoadGuide(guidePath, guideKey)
	if err != nil {
		return nil, fmt.Errorf("steps.NewLoadGuide: %w", err)
	}
	results = append(results, step0)

	step1, err := steps.NewCreatePrompt(tmpl, guideKey, questionKey, promptKey)
	if err != nil {
		return nil, fmt.Errorf("steps.NewCreatePrompt: %w", err)
	}
	results = append(results, step1)

	step2, err := steps.NewAskModel(llm, o.settings, o.log, promptKey, answerKey)
	if err != nil {
		return nil, fmt.Errorf("steps.NewAskModel: %w", err)
	}
	results = append(results, step2)

	step3, err := steps.NewExtractReply(answerKey, replyKey)
	if err != nil {
		return nil, fmt.Errorf("steps.NewExtractReply: %w", err)
	}
	results = append(results, step3)

	return results, nil
}
