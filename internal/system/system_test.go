package system

import (
	"context"
	"errors"
	"testing"
)

func TestFunc(t *testing.T) {
	var gotTick int64
	s := NewFunc("recorder", func(ctx context.Context, tick int64) error {
		gotTick = tick
		return nil
	})

	if s.Name() != "recorder" {
		t.Errorf("Name() = %q, want %q", s.Name(), "recorder")
	}
	if err := s.Update(context.Background(), 7); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if gotTick != 7 {
		t.Errorf("received tick %d, want 7", gotTick)
	}
}

func TestFuncPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := NewFunc("failing", func(ctx context.Context, tick int64) error {
		return boom
	})
	if err := s.Update(context.Background(), 0); !errors.Is(err, boom) {
		t.Errorf("Update returned %v, want %v", err, boom)
	}
}
