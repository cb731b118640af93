// Package templates renders the HTML mail bodies addressed by name.
//
// The catalog is a YAML file mapping a template name to its file, default
// subject and relay tag. Template files are html/template documents that
// define a "content" block wrapped by a shared layout. Templates are executed
// through templ.FromGoHTML so html/template output and templ components share
// one rendering path.
//
//	catalog := templates.MustDefault()
//	out, err := catalog.Render(ctx, "passwordReset", map[string]any{
//		"reset_link": "https://example.com/reset?t=abc",
//	})
//
// The built-in catalog provides accountConfirmation, passwordReset and invoice.
// Templates may use the divide, toFixed and upper helpers.
package templates
