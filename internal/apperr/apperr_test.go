package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("x")); got != KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", got)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}
	if got := KindOf(nil); got != 0 {
		t.Errorf("KindOf(nil) = %v, want 0", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while handling request: %w", Forbidden("no es tuyo"))
	if got := KindOf(err); got != KindForbidden {
		t.Errorf("KindOf(wrapped) = %v, want KindForbidden", got)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	if !errors.Is(Conflict("a"), Conflict("b")) {
		t.Error("two conflicts should match regardless of message")
	}
	if errors.Is(Conflict("a"), NotFound("a")) {
		t.Error("different kinds must not match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("db timeout")
	err := Wrap(NotFound("registro no encontrado"), cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via Unwrap")
	}
	if KindOf(err) != KindNotFound {
		t.Error("kind should survive wrapping")
	}
}
