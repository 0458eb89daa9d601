package steps

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"
)

const MaxGuideBytes = 3000

// LoadGuide reads the shopping guide the assistant is allowed to answer from.
type LoadGuide struct {
	guidePath string
	guideKey  string
	maxBytes  int
}

func NewLoadGuide(guidePath, guideKey string) (LoadGuide, error) {
	var s LoadGuide

	if guidePath == "" {
		return s, fmt.Errorf("guidePath is empty")
	}
	if guideKey == "" {
		return s, fmt.Errorf("guideKey is empty")
	}

	return LoadGuide{
		guidePath: guidePath,
		guideKey:  guideKey,
		maxBytes:  MaxGuideBytes,
	}, nil
}

func (s LoadGuide) Name() string {
	return "load_guide"
}

func (s LoadGuide) Run(_ context.Context, dataCtx DataContext) error {
	content, err := os.ReadFile(s.guidePath)
	if err != nil {
		return fmt.Errorf("os.ReadFile[%s]: %w", s.guidePath, err)
	}

	guide := string(content)
	if len(guide) > s.maxBytes {
		slog.Warn("guide too long, trimming",
			"method", "LoadGuide.Run",
			"bytes", len(guide),
			"max_bytes", s.maxBytes)
		guide = trimUTF8(guide, s.maxBytes)
	}

	dataCtx[s.guideKey] = guide

	return nil
}

// trimUTF8 cuts s to at most n bytes without splitting a rune.
func trimUTF8(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
