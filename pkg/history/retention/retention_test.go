package retention

import (
	"context"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/config"
	"humanlayer/hlyr/pkg/history"
	"humanlayer/hlyr/pkg/history/storage"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T, ages ...time.Duration) *storage.MemoryStorage {
	t.Helper()
	s := storage.NewMemoryStorage()
	for i, age := range ages {
		turn := &history.Turn{
			ID:             string(rune('a' + i)),
			SessionID:      "s",
			Timestamp:      now.Add(-age),
			ActiveProvider: "ollama",
			Prompt:         "hi",
		}
		if err := s.Store(context.Background(), turn); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	return s
}

func remaining(t *testing.T, s history.Storage) string {
	t.Helper()
	turns, err := s.Query(context.Background(), &history.Query{Ascending: true})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	var ids string
	for _, turn := range turns {
		ids += turn.ID
	}
	return ids
}

func TestPrune(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name        string
		config      config.RetentionConfig
		wantDeleted int64
		wantLeft    string
	}{
		{
			name:     "no limits",
			config:   config.RetentionConfig{},
			wantLeft: "abcd",
		},
		{
			name:        "max age",
			config:      config.RetentionConfig{MaxAge: 7 * day},
			wantDeleted: 2,
			wantLeft:    "cd",
		},
		{
			name:        "max turns",
			config:      config.RetentionConfig{MaxTurns: 1},
			wantDeleted: 3,
			wantLeft:    "d",
		},
		{
			name:        "both",
			config:      config.RetentionConfig{MaxAge: 20 * day, MaxTurns: 2},
			wantDeleted: 2,
			wantLeft:    "cd",
		},
		{
			name:     "under limit",
			config:   config.RetentionConfig{MaxTurns: 10},
			wantLeft: "abcd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seeded(t, 30*day, 10*day, 2*day, time.Hour)
			p := NewPruner(s, tt.config)
			p.now = func() time.Time { return now }

			deleted, err := p.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune failed: %v", err)
			}
			if deleted != tt.wantDeleted {
				t.Errorf("deleted = %d, want %d", deleted, tt.wantDeleted)
			}
			if got := remaining(t, s); got != tt.wantLeft {
				t.Errorf("remaining = %q, want %q", got, tt.wantLeft)
			}
		})
	}
}

func TestPrunerEnabled(t *testing.T) {
	s := storage.NewMemoryStorage()
	if NewPruner(s, config.RetentionConfig{}).Enabled() {
		t.Error("pruner without limits should be disabled")
	}
	if !NewPruner(s, config.RetentionConfig{MaxTurns: 5}).Enabled() {
		t.Error("pruner with MaxTurns should be enabled")
	}
}

func TestSchedulerStart(t *testing.T) {
	s := storage.NewMemoryStorage()
	limited := NewPruner(s, config.RetentionConfig{MaxTurns: 5})

	t.Run("invalid schedule", func(t *testing.T) {
		sched := NewScheduler(limited, "not a schedule")
		if err := sched.Start(context.Background()); err == nil {
			t.Fatal("expected an error")
		}
		if sched.Running() {
			t.Error("scheduler should not be running")
		}
	})

	t.Run("empty schedule", func(t *testing.T) {
		sched := NewScheduler(limited, "")
		if err := sched.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sched.Running() {
			t.Error("scheduler should not be running")
		}
	})

	t.Run("no limits", func(t *testing.T) {
		sched := NewScheduler(NewPruner(s, config.RetentionConfig{}), "@hourly")
		if err := sched.Start(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sched.Running() {
			t.Error("scheduler should not be running")
		}
	})

	t.Run("stops with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		sched := NewScheduler(limited, "@hourly")
		if err := sched.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if !sched.Running() {
			t.Fatal("scheduler should be running")
		}

		next, ok := sched.NextRun()
		if !ok || time.Until(next) > time.Hour {
			t.Errorf("NextRun = %v, %v; want within an hour", next, ok)
		}

		cancel()
		deadline := time.Now().Add(2 * time.Second)
		for sched.Running() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if sched.Running() {
			t.Error("scheduler still running after cancel")
		}
	})
}

func TestSchedulerRunsPrune(t *testing.T) {
	s := seeded(t, 48*time.Hour, time.Minute)
	p := NewPruner(s, config.RetentionConfig{MaxTurns: 1})
	sched := NewScheduler(p, "@every 50ms")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sched.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if count, _ := s.Count(ctx, &history.Query{}); count == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("scheduled prune did not run")
}
