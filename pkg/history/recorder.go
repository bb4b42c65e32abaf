package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the Recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the write queue.
	// Default: 64
	AsyncBuffer int

	// WriteTimeout bounds one Store call and the wait for queue space.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  64,
		WriteTimeout: 5 * time.Second,
	}
}

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("history recorder closed")

// Recorder writes the turns of one session to storage on a background
// goroutine so a slow database never delays the chat.
type Recorder struct {
	storage   Storage
	config    *RecorderConfig
	sessionID string
	logger    *slog.Logger

	turns     chan *Turn
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder starts a recorder for sessionID. An empty sessionID starts a
// new session with a fresh UUID.
func NewRecorder(storage Storage, sessionID string, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	r := &Recorder{
		storage:   storage,
		config:    config,
		sessionID: sessionID,
		logger:    slog.Default().With("component", "history.recorder", "session_id", sessionID),
		turns:     make(chan *Turn, config.AsyncBuffer),
		done:      make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// SessionID returns the session the recorder writes to.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Record stamps turn with an ID, the session ID, and a timestamp if unset,
// then queues it for writing. It returns once the turn is queued.
func (r *Recorder) Record(turn *Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	turn.SessionID = r.sessionID
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	select {
	case <-r.done:
		return ErrRecorderClosed
	default:
	}

	select {
	case r.turns <- turn:
		return nil
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("history queue full, dropping turn", "turn_id", turn.ID)
		return context.DeadlineExceeded
	case <-r.done:
		return ErrRecorderClosed
	}
}

// Close writes every queued turn and stops the recorder. It does not close
// the storage.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case turn := <-r.turns:
			r.write(turn)
		case <-r.done:
			for {
				select {
				case turn := <-r.turns:
					r.write(turn)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(turn *Turn) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, turn); err != nil {
		r.logger.Error("failed to store turn", "turn_id", turn.ID, "error", err)
		return
	}
	r.logger.Debug("turn recorded", "turn_id", turn.ID, "provider", turn.Provider)
}

// LoadSession returns the turns of sessionID, oldest first.
func LoadSession(ctx context.Context, storage Storage, sessionID string) ([]*Turn, error) {
	return storage.Query(ctx, &Query{SessionID: sessionID, Ascending: true})
}
