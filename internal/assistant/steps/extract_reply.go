package steps

import (
	"context"
	"fmt"
	"strings"
)

const FallbackReply = "Sorry, no reply from the assistant."

type ExtractReply struct {
	answerKey string
	replyKey  string
}

func NewExtractReply(answerKey, replyKey string) (ExtractReply, error) {
	var s ExtractReply

	if answerKey == "" {
		return s, fmt.Errorf("answerKey is empty")
	}
	if replyKey == "" {
		return s, fmt.Errorf("replyKey is empty")
	}

	return ExtractReply{
		answerKey: answerKey,
		replyKey:  replyKey,
	}, nil
}

func (s ExtractReply) Name() string {
	return "extract_reply"
}

func (s ExtractReply) Run(_ context.Context, dataCtx DataContext) error {
	answer, ok := dataCtx[s.answerKey]
	if !ok {
		return fmt.Errorf("key[%s] not found in data context", s.answerKey)
	}

	reply := strings.TrimSpace(answer)
	if reply == "" {
		reply = FallbackReply
	}

	dataCtx[s.replyKey] = reply

	return nil
}
