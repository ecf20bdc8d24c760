package http

import "errors"

// ErrTemplateNotFound is returned when a template name is not in the renderer's set.
var ErrTemplateNotFound = errors.New("template not found")
