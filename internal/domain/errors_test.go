package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "not found", err: ErrOrderNotFound, want: true},
		{name: "wrapped not found", err: fmt.Errorf("select order: %w", ErrOrderNotFound), want: true},
		{name: "other error", err: ErrOrderFinalized, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := error(&TransitionError{From: OrderStatusNew, Event: StatusEventComplete})

	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatal("expected TransitionError to unwrap to ErrInvalidTransition")
	}

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatal("expected errors.As to match TransitionError")
	}
	if te.From != OrderStatusNew || te.Event != StatusEventComplete {
		t.Fatalf("unexpected transition error fields: %+v", te)
	}
}
