package redirect_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu       sync.Mutex
	notified []string
	opened   []string
	openErr  error
}

func (r *recorder) Notify(_ context.Context, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, url)
}

func (r *recorder) Open(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return r.openErr
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notified), len(r.opened)
}

const signingURL = "https://docuseal.co/d/acz-order-form"

func schedule(t *testing.T, ctx context.Context, rec *recorder) (*redirect.Task, *testsupport.FakeClock) {
	t.Helper()
	clock := testsupport.NewFakeClock(time.Unix(0, 0))
	task, err := redirect.Schedule(ctx, redirect.DefaultPlan(signingURL), rec, rec, redirect.WithClock(clock))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return task, clock
}

func waitDone(t *testing.T, task *redirect.Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatalf("task did not finish")
	}
}

func TestTaskRunsBothStagesInOrder(t *testing.T) {
	rec := &recorder{}
	task, clock := schedule(t, context.Background(), rec)

	clock.Advance(999 * time.Millisecond)
	if n, o := rec.counts(); n != 0 || o != 0 {
		t.Fatalf("before 1000ms: notified=%d opened=%d", n, o)
	}

	clock.Advance(time.Millisecond)
	if n, o := rec.counts(); n != 1 || o != 0 {
		t.Fatalf("at 1000ms: notified=%d opened=%d", n, o)
	}
	if task.Stage() != redirect.StageNotified {
		t.Fatalf("stage: want notified, got %s", task.Stage())
	}

	clock.Advance(1499 * time.Millisecond)
	if _, o := rec.counts(); o != 0 {
		t.Fatalf("open fired early")
	}

	clock.Advance(time.Millisecond)
	waitDone(t, task)
	if n, o := rec.counts(); n != 1 || o != 1 {
		t.Fatalf("at 2500ms: notified=%d opened=%d", n, o)
	}
	if rec.opened[0] != signingURL {
		t.Fatalf("opened wrong url: %s", rec.opened[0])
	}
	if task.Stage() != redirect.StageOpened || task.Err() != nil {
		t.Fatalf("final stage %s err %v", task.Stage(), task.Err())
	}

	clock.Advance(10 * time.Second)
	if _, o := rec.counts(); o != 1 {
		t.Fatalf("open must happen exactly once, got %d", o)
	}
}

func TestTaskCancelBeforeNotify(t *testing.T) {
	rec := &recorder{}
	task, clock := schedule(t, context.Background(), rec)

	clock.Advance(500 * time.Millisecond)
	task.Cancel()
	waitDone(t, task)

	clock.Advance(5 * time.Second)
	if n, o := rec.counts(); n != 0 || o != 0 {
		t.Fatalf("cancelled task produced effects: notified=%d opened=%d", n, o)
	}
	if task.Stage() != redirect.StageCancelled {
		t.Fatalf("stage: want cancelled, got %s", task.Stage())
	}
	if clock.Pending() != 0 {
		t.Fatalf("pending timer left behind")
	}
}

func TestTaskCancelBetweenStages(t *testing.T) {
	rec := &recorder{}
	task, clock := schedule(t, context.Background(), rec)

	clock.Advance(1200 * time.Millisecond)
	task.Cancel()
	task.Cancel()
	clock.Advance(5 * time.Second)

	if n, o := rec.counts(); n != 1 || o != 0 {
		t.Fatalf("notified=%d opened=%d, want 1/0", n, o)
	}
}

func TestTaskParentContextCancels(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	task, clock := schedule(t, ctx, rec)

	cancel()
	waitDone(t, task)
	clock.Advance(5 * time.Second)

	if n, o := rec.counts(); n != 0 || o != 0 {
		t.Fatalf("notified=%d opened=%d after parent cancel", n, o)
	}
}

func TestTaskOpenFailureIsRecorded(t *testing.T) {
	rec := &recorder{openErr: errors.New("popup blocked")}
	task, clock := schedule(t, context.Background(), rec)

	clock.Advance(redirect.DefaultNotifyDelay + redirect.DefaultOpenDelay)
	waitDone(t, task)

	if task.Stage() != redirect.StageFailed {
		t.Fatalf("stage: want failed, got %s", task.Stage())
	}
	if task.Err() == nil || task.Err().Error() != "popup blocked" {
		t.Fatalf("unexpected err: %v", task.Err())
	}
}

func TestScheduleValidation(t *testing.T) {
	rec := &recorder{}
	if _, err := redirect.Schedule(context.Background(), redirect.Plan{}, rec, rec); !errors.Is(err, redirect.ErrMissingURL) {
		t.Fatalf("want ErrMissingURL, got %v", err)
	}
	if _, err := redirect.Schedule(context.Background(), redirect.DefaultPlan(signingURL), rec, nil); err == nil {
		t.Fatalf("expected error for nil opener")
	}
}

func TestTaskWithSystemClock(t *testing.T) {
	rec := &recorder{}
	plan := redirect.Plan{URL: signingURL, NotifyDelay: time.Millisecond, OpenDelay: time.Millisecond}
	task, err := redirect.Schedule(context.Background(), plan, rec, rec)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	waitDone(t, task)
	if n, o := rec.counts(); n != 1 || o != 1 {
		t.Fatalf("notified=%d opened=%d", n, o)
	}
}
