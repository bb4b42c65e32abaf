package history_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"humanlayer/hlyr/pkg/history"
	"humanlayer/hlyr/pkg/history/storage"
)

func TestRecorderWritesOnClose(t *testing.T) {
	s := storage.NewMemoryStorage()
	r := history.NewRecorder(s, "", nil)

	if r.SessionID() == "" {
		t.Fatal("expected a generated session ID")
	}

	for _, prompt := range []string{"one", "two", "three"} {
		if err := r.Record(&history.Turn{ActiveProvider: "ollama", Prompt: prompt}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	turns, err := history.LoadSession(context.Background(), s, r.SessionID())
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, want := range []string{"one", "two", "three"} {
		turn := turns[i]
		if turn.Prompt != want {
			t.Errorf("turn %d prompt = %q, want %q", i, turn.Prompt, want)
		}
		if turn.ID == "" || turn.Timestamp.IsZero() || turn.SessionID != r.SessionID() {
			t.Errorf("turn %d not stamped: %+v", i, turn)
		}
	}
}

func TestRecorderResumesSession(t *testing.T) {
	s := storage.NewMemoryStorage()
	r := history.NewRecorder(s, "existing", nil)
	defer r.Close()

	turn := &history.Turn{SessionID: "other", Prompt: "hi"}
	if err := r.Record(turn); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if turn.SessionID != "existing" {
		t.Errorf("SessionID = %q, want existing", turn.SessionID)
	}
}

func TestRecorderClosed(t *testing.T) {
	r := history.NewRecorder(storage.NewMemoryStorage(), "s", nil)
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := r.Record(&history.Turn{Prompt: "late"}); !errors.Is(err, history.ErrRecorderClosed) {
		t.Errorf("expected ErrRecorderClosed, got %v", err)
	}
}

// failingStorage rejects every write.
type failingStorage struct {
	storage.MemoryStorage
	mu    sync.Mutex
	calls int
}

func (f *failingStorage) Store(ctx context.Context, turn *history.Turn) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return history.NewStorageError("test", "store", errors.New("disk full"))
}

func TestRecorderStoreFailureIsNotFatal(t *testing.T) {
	s := &failingStorage{}
	r := history.NewRecorder(s, "s", &history.RecorderConfig{AsyncBuffer: 1, WriteTimeout: time.Second})

	if err := r.Record(&history.Turn{Prompt: "hi"}); err != nil {
		t.Fatalf("Record should queue despite storage failures: %v", err)
	}
	r.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls != 1 {
		t.Errorf("Store called %d times, want 1", s.calls)
	}
}

func TestTurnSucceeded(t *testing.T) {
	if !(&history.Turn{Reply: "ok"}).Succeeded() {
		t.Error("turn without error should succeed")
	}
	if (&history.Turn{Reply: "partial", Error: "stream cut"}).Succeeded() {
		t.Error("turn with error should not succeed")
	}
}
