package render

import (
	"context"

	"github.com/goliatone/go-formedit/pkg/session"
)

// Renderer converts a resolved form view into bytes (HTML, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view session.FormView, options RenderOptions) ([]byte, error)
}
