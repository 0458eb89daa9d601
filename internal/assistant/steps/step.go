package steps

import (
	"context"
)

type Step interface {
	Name() string
	Run(ctx context.Context, dataCtx DataContext) error
}

// DataContext is created per question and shared by the steps answering it.
type DataContext map[string]string
