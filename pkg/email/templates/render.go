package templates

import (
	"context"

	"github.com/a-h/templ"
)

// Render writes c into a pooled buffer and returns the markup.
func Render(ctx context.Context, c templ.Component) (string, error) {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := c.Render(ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
