package templates_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifier/pkg/email/templates"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	catalog, err := templates.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"accountConfirmation", "invoice", "passwordReset"}, catalog.Names())

	entry, ok := catalog.Lookup("passwordReset")
	require.True(t, ok)
	assert.Equal(t, "Reset your password", entry.Subject)
	assert.Equal(t, "password-reset", entry.Tag)

	_, ok = catalog.Lookup("welcome")
	assert.False(t, ok)
}

func TestCatalog_Render(t *testing.T) {
	t.Parallel()

	catalog := templates.MustDefault()
	ctx := context.Background()

	t.Run("account confirmation", func(t *testing.T) {
		t.Parallel()
		out, err := catalog.Render(ctx, "accountConfirmation", map[string]any{
			"name":              "Ada",
			"confirmation_link": "https://example.com/confirm/abc",
			"preheader":         "One last step",
		})
		require.NoError(t, err)
		assert.Equal(t, "Confirm your account", out.Subject)
		assert.Equal(t, "account-confirmation", out.Tag)
		assert.Contains(t, out.HTML, "<!DOCTYPE html>")
		assert.Contains(t, out.HTML, "Hi Ada,")
		assert.Contains(t, out.HTML, "https://example.com/confirm/abc")
		assert.Contains(t, out.HTML, "One last step")
	})

	t.Run("escapes context values", func(t *testing.T) {
		t.Parallel()
		out, err := catalog.Render(ctx, "accountConfirmation", map[string]any{
			"name": "<script>alert(1)</script>",
		})
		require.NoError(t, err)
		assert.NotContains(t, out.HTML, "<script>alert(1)</script>")
		assert.Contains(t, out.HTML, "&lt;script&gt;")
	})

	t.Run("invoice helpers", func(t *testing.T) {
		t.Parallel()
		out, err := catalog.Render(ctx, "invoice", map[string]any{
			"invoice_number": "INV-7",
			"currency":       "usd",
			"total":          float64(2499),
			"items": []any{
				map[string]any{"description": "Pro plan", "amount": float64(1999)},
				map[string]any{"description": "Extra seat", "amount": float64(500)},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, out.HTML, "Invoice INV-7")
		assert.Contains(t, out.HTML, "19.99 USD")
		assert.Contains(t, out.HTML, "5.00 USD")
		assert.Contains(t, out.HTML, "24.99 USD")
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Render(ctx, "welcome", nil)
		assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
	})

	t.Run("execution failure", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.Render(ctx, "invoice", map[string]any{"total": []string{"x"}})
		assert.ErrorIs(t, err, templates.ErrTemplateRender)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("without layout", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"catalog.yaml": {Data: []byte("templates:\n  hello:\n    file: hello.html\n    subject: Hello\n")},
			"hello.html":   {Data: []byte(`<p>Hello {{ .name }}</p>`)},
		}
		catalog, err := templates.Load(fsys, "catalog.yaml")
		require.NoError(t, err)

		out, err := catalog.Render(context.Background(), "hello", map[string]any{"name": "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello Bob</p>", out.HTML)
		assert.Equal(t, "hello", out.Tag)
	})

	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "missing catalog", fsys: fstest.MapFS{}},
		{name: "malformed yaml", fsys: fstest.MapFS{"catalog.yaml": {Data: []byte("templates: [")}}},
		{name: "empty catalog", fsys: fstest.MapFS{"catalog.yaml": {Data: []byte("templates: {}\n")}}},
		{name: "entry without file", fsys: fstest.MapFS{"catalog.yaml": {Data: []byte("templates:\n  a:\n    subject: A\n")}}},
		{name: "missing template file", fsys: fstest.MapFS{"catalog.yaml": {Data: []byte("templates:\n  a:\n    file: a.html\n")}}},
		{name: "broken template", fsys: fstest.MapFS{
			"catalog.yaml": {Data: []byte("templates:\n  a:\n    file: a.html\n")},
			"a.html":       {Data: []byte("{{ if }}")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := templates.Load(tt.fsys, "catalog.yaml")
			assert.ErrorIs(t, err, templates.ErrInvalidCatalog)
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templ.Raw("<b>ok</b>"))
	require.NoError(t, err)
	assert.Equal(t, "<b>ok</b>", html)
}
