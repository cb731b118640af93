package templates

import "errors"

var (
	ErrTemplateNotFound = errors.New("email template not found")
	ErrTemplateRender   = errors.New("failed to render email template")
	ErrInvalidCatalog   = errors.New("invalid template catalog")
)
