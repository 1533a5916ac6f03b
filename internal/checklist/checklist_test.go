package checklist

import (
	"context"
	"errors"
	"testing"
)

func TestRun_ExecutesInOrder(t *testing.T) {
	var order []string
	l := New("ingest", nil)
	l.Add("move", func(context.Context) error {
		order = append(order, "move")
		return nil
	})
	l.Add("clean", func(context.Context) error {
		order = append(order, "clean")
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(order) != 2 || order[0] != "move" || order[1] != "clean" {
		t.Fatalf("order = %v, want [move clean]", order)
	}
	if l.Len() != 0 {
		t.Fatalf("Len after Run = %d, want 0", l.Len())
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	ran := 0
	l := New("ingest", nil)
	l.Add("first", func(context.Context) error {
		ran++
		return boom
	})
	l.Add("second", func(context.Context) error {
		ran++
		return nil
	})

	err := l.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped boom", err)
	}
	if ran != 1 {
		t.Fatalf("ran = %d steps, want 1", ran)
	}
}

func TestRun_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	l := New("ingest", nil)
	l.Add("never", func(context.Context) error {
		ran = true
		return nil
	})

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if ran {
		t.Fatalf("step ran despite cancelled context")
	}
}
