// Package validator provides rule-based request validation.
//
// A Rule pairs a check with the ValidationError reported when it fails. Apply
// evaluates a list of rules and returns ValidationErrors (which implements
// error) or nil:
//
//	err := validator.Apply(
//	    validator.RequiredString("to", req.To),
//	    validator.ValidEmail("to", req.To),
//	    validator.InListString("template", req.Template, names),
//	)
//
// The HTTP layer recognises ValidationErrors and answers 400 with per-field
// details.
package validator
