package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSchedulerRunsJob(t *testing.T) {
	s := New(zerolog.Nop())

	ran := make(chan struct{}, 1)
	if err := s.Add("probe", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	if err := New(zerolog.Nop()).Add("bad", "every now and then", func() {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestSchedulerStopHonoursContext(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("expected idle scheduler to stop, got %v", err)
	}
}

func TestCronLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{logger: zerolog.New(&buf)}

	l.Error(errors.New("boom"), "job failed", "entry", 3)

	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, `"entry":3`) {
		t.Fatalf("unexpected log output %s", out)
	}
}
