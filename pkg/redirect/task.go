package redirect

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default stage delays.
const (
	DefaultNotifyDelay = 1000 * time.Millisecond
	DefaultOpenDelay   = 1500 * time.Millisecond
)

// ErrMissingURL is returned when a plan has no target.
var ErrMissingURL = errors.New("redirect: signing url is required")

// Plan describes one hand-off. OpenDelay is measured from the notification.
type Plan struct {
	URL         string
	NotifyDelay time.Duration
	OpenDelay   time.Duration
}

// DefaultPlan returns a plan for url with the standard delays.
func DefaultPlan(url string) Plan {
	return Plan{URL: url, NotifyDelay: DefaultNotifyDelay, OpenDelay: DefaultOpenDelay}
}

// Stage reports how far a task has progressed.
type Stage int

const (
	StagePending Stage = iota
	StageNotified
	StageOpened
	StageCancelled
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageNotified:
		return "notified"
	case StageOpened:
		return "opened"
	case StageCancelled:
		return "cancelled"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option configures Schedule.
type Option func(*Task)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(t *Task) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithLogger attaches a logger for stage transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Task) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Task is one scheduled hand-off. Cancel stops whichever stage is pending; a
// stage that has not started by the time Cancel returns never runs.
type Task struct {
	plan     Plan
	notifier Notifier
	opener   Opener
	clock    Clock
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	timer Timer
	stage Stage
	err   error

	done     chan struct{}
	doneOnce sync.Once
}

// Schedule starts the hand-off. Cancelling ctx has the same effect as
// Task.Cancel.
func Schedule(ctx context.Context, plan Plan, notifier Notifier, opener Opener, options ...Option) (*Task, error) {
	if strings.TrimSpace(plan.URL) == "" {
		return nil, ErrMissingURL
	}
	if opener == nil {
		return nil, errors.New("redirect: opener is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t := &Task{
		plan:     plan,
		notifier: notifier,
		opener:   opener,
		clock:    SystemClock(),
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	t.ctx, t.cancel = context.WithCancel(ctx)

	t.mu.Lock()
	t.timer = t.clock.AfterFunc(plan.NotifyDelay, t.notify)
	t.mu.Unlock()

	go t.watch()
	return t, nil
}

// Cancel stops the task. It is safe to call more than once and after the
// task has finished.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finishedLocked() {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.finishLocked(StageCancelled, nil)
	t.logger.Debug("redirect cancelled", zap.String("url", t.plan.URL))
}

// Done is closed once the task has opened the URL, failed or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Stage returns the current stage.
func (t *Task) Stage() Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stage
}

// Err returns the opener error of a failed task.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// URL returns the signing target.
func (t *Task) URL() string {
	return t.plan.URL
}

func (t *Task) watch() {
	select {
	case <-t.ctx.Done():
		t.Cancel()
	case <-t.done:
	}
}

func (t *Task) notify() {
	t.mu.Lock()
	if t.finishedLocked() || t.ctx.Err() != nil {
		t.mu.Unlock()
		return
	}
	t.stage = StageNotified
	t.mu.Unlock()

	if t.notifier != nil {
		t.notifier.Notify(t.ctx, t.plan.URL)
	}
	t.logger.Info("redirecting to signing service", zap.String("url", t.plan.URL), zap.Duration("open_in", t.plan.OpenDelay))

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finishedLocked() || t.ctx.Err() != nil {
		return
	}
	t.timer = t.clock.AfterFunc(t.plan.OpenDelay, t.open)
}

func (t *Task) open() {
	t.mu.Lock()
	if t.finishedLocked() || t.ctx.Err() != nil {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	err := t.opener.Open(t.ctx, t.plan.URL)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finishedLocked() {
		return
	}
	if err != nil {
		t.logger.Warn("open signing url failed", zap.String("url", t.plan.URL), zap.Error(err))
		t.finishLocked(StageFailed, err)
		return
	}
	t.finishLocked(StageOpened, nil)
}

func (t *Task) finishedLocked() bool {
	switch t.stage {
	case StageOpened, StageCancelled, StageFailed:
		return true
	default:
		return false
	}
}

func (t *Task) finishLocked(stage Stage, err error) {
	t.stage = stage
	t.err = err
	t.doneOnce.Do(func() {
		close(t.done)
		t.cancel()
	})
}
