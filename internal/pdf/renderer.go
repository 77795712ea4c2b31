package pdf

import "context"

// Renderer rasterizes an HTML document to PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}
