package scheduler_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wyfcoding/stocktracking/pkg/scheduler"
)

// cron 的 @every 最小粒度为一秒，用秒级间隔驱动测试
type countingJob struct {
	name      string
	runs      atomic.Int32
	sleep     time.Duration
	err       error
	sawCancel atomic.Bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.sleep > 0 {
		select {
		case <-time.After(j.sleep):
		case <-ctx.Done():
			j.sawCancel.Store(true)
			return ctx.Err()
		}
	}
	return j.err
}

func newScheduler() *scheduler.Scheduler {
	return scheduler.New(slog.New(slog.DiscardHandler))
}

func TestSchedulerKeepsRunningJobThatFails(t *testing.T) {
	sched := newScheduler()
	job := &countingJob{name: "flaky", err: errors.New("boom")}

	if err := sched.Register("@every 1s", job); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sched.Start()
	time.Sleep(2200 * time.Millisecond)
	sched.Stop()

	got := job.runs.Load()
	if got < 2 {
		t.Fatalf("runs = %d, want at least 2 despite job errors", got)
	}

	time.Sleep(1100 * time.Millisecond)
	if after := job.runs.Load(); after != got {
		t.Fatalf("job ran after Stop: %d -> %d", got, after)
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	sched := newScheduler()

	if err := sched.Register("definitely not cron", &countingJob{name: "bad"}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	sched := newScheduler()
	job := &countingJob{name: "slow", sleep: 1500 * time.Millisecond}

	if err := sched.Register("@every 1s", job); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sched.Start()
	time.Sleep(3200 * time.Millisecond)
	sched.Stop()

	// 每轮跑 1.5s，触发间隔 1s：落在上一轮里的触发应被跳过而不是排队
	got := job.runs.Load()
	if got < 1 || got > 3 {
		t.Fatalf("runs = %d, want overlapping triggers skipped", got)
	}
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	sched := newScheduler()
	job := &countingJob{name: "hang", sleep: 30 * time.Second}

	if err := sched.Register("@every 1s", job); err != nil {
		t.Fatalf("Register: %v", err)
	}

	sched.Start()
	time.Sleep(1300 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return while a job was running")
	}

	if job.runs.Load() < 1 {
		t.Fatalf("job never started")
	}
	if !job.sawCancel.Load() {
		t.Fatalf("running job was not cancelled on Stop")
	}
}
