package steps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ModelSettings are sent with every request, zero values leave the provider default.
type ModelSettings struct {
	Model     string
	MaxTokens int
}

func (m ModelSettings) callOptions() []llms.CallOption {
	var opts []llms.CallOption
	if m.Model != "" {
		opts = append(opts, llms.WithModel(m.Model))
	}
	if m.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(m.MaxTokens))
	}
	return opts
}

// AskModel sends the prompt and stores the first answer. An answer the
// provider did not finish (safety block, token limit, recitation) is stored
// empty so that the shopper gets the fallback reply instead of a fragment.
type AskModel struct {
	llm       llms.Model
	opts      []llms.CallOption
	log       *slog.Logger
	promptKey string
	answerKey string
}

func NewAskModel(llm llms.Model, settings ModelSettings, log *slog.Logger, promptKey, answerKey string) (AskModel, error) {
	var s AskModel

	if llm == nil {
		return s, fmt.Errorf("llm is nil")
	}
	if promptKey == "" {
		return s, fmt.Errorf("promptKey is empty")
	}
	if answerKey == "" {
		return s, fmt.Errorf("answerKey is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	return AskModel{
		llm:       llm,
		opts:      settings.callOptions(),
		log:       log,
		promptKey: promptKey,
		answerKey: answerKey,
	}, nil
}

func (s AskModel) Name() string {
	return "ask_model"
}

func (s AskModel) Run(ctx context.Context, dataCtx DataContext) error {
	prompt, ok := dataCtx[s.promptKey]
	if !ok {
		return fmt.Errorf("key[%s] not found in data context", s.promptKey)
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := s.llm.GenerateContent(ctx, content, s.opts...)
	if err != nil {
		return fmt.Errorf("llm.GenerateContent: %w", err)
	}

	dataCtx[s.answerKey] = ""

	var choice *llms.ContentChoice
	if resp != nil {
		for _, c := range resp.Choices {
			if c != nil {
				choice = c
				break
			}
		}
	}
	if choice == nil {
		s.log.Warn("model returned no answer",
			"method", "AskModel.Run")
		return nil
	}

	if !finished(choice.StopReason) {
		s.log.Warn("model answer discarded",
			"method", "AskModel.Run",
			"stop_reason", choice.StopReason,
			"answer_len", len(choice.Content))
		return nil
	}

	dataCtx[s.answerKey] = choice.Content

	return nil
}

// finished reports a natural end of the answer. OpenAI reports "stop",
// Gemini "STOP" or "FinishReasonStop", some providers report nothing.
func finished(stopReason string) bool {
	reason := strings.ToLower(strings.TrimSpace(stopReason))
	reason = strings.TrimPrefix(reason, "finishreason")
	reason = strings.TrimPrefix(reason, "finish_reason_")

	switch reason {
	case "", "stop", "end_turn", "stop_sequence":
		return true
	default:
		return false
	}
}
