package core

import (
	"errors"
	"fmt"
)

var ErrTemplateNotFound = errors.New("cosmic: template not found")

// TemplateError reports a template that exists but failed to build or run.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("cosmic: template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
