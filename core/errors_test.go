package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError_WithExactError(t *testing.T) {
	if !IsNotFoundError(ErrTemplateNotFound) {
		t.Error("expected true for ErrTemplateNotFound")
	}
}

func TestIsNotFoundError_WithWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: main/index.html.twig", ErrTemplateNotFound)
	if !IsNotFoundError(err) {
		t.Error("expected true for wrapped ErrTemplateNotFound")
	}
}

func TestIsNotFoundError_WithDifferentError(t *testing.T) {
	if IsNotFoundError(errors.New("cosmic: template not found")) {
		t.Error("expected false for an unrelated error with the same message")
	}
}

func TestIsNotFoundError_WithNil(t *testing.T) {
	if IsNotFoundError(nil) {
		t.Error("expected false for nil error")
	}
}

func TestTemplateError_UnwrapsCause(t *testing.T) {
	cause := errors.New("undefined: title")
	err := error(&TemplateError{Name: "main/index.html.twig", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("expected TemplateError to unwrap to its cause")
	}
	want := "cosmic: template main/index.html.twig: undefined: title"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	var te *TemplateError
	if !errors.As(fmt.Errorf("render: %w", err), &te) || te.Name != "main/index.html.twig" {
		t.Errorf("expected errors.As to find the TemplateError, got %v", te)
	}
}
