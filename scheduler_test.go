package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func newTestScheduler() *TaskScheduler {
	s := NewTaskScheduler()
	s.now = func() time.Time { return testInstant }
	return s
}

func TestScheduler_ScheduleRequiresRunner(t *testing.T) {
	s := newTestScheduler()
	if _, err := s.Schedule(TaskSnapshot, "growth", 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("Schedule without runner: err = %v, want ErrValidation", err)
	}
}

func TestScheduler_RunLifecycle(t *testing.T) {
	s := newTestScheduler()
	var ran []string
	s.Handle(TaskSnapshot, func(ctx context.Context, task ScheduledTask) error {
		ran = append(ran, task.Portfolio)
		return nil
	})

	task, err := s.Schedule(TaskSnapshot, "growth", time.Hour)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if task.Status != TaskPending || task.ID == "" {
		t.Fatalf("scheduled task = %+v, want pending with an ID", task)
	}

	// Run is explicit and ignores the scheduled time.
	done, err := s.Run(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if done.Status != TaskCompleted {
		t.Errorf("status after run = %s, want %s", done.Status, TaskCompleted)
	}
	if done.CompletedAt.IsZero() {
		t.Error("CompletedAt is zero after run")
	}
	if len(ran) != 1 || ran[0] != "growth" {
		t.Errorf("runner saw portfolios %v, want [growth]", ran)
	}

	// A finished task cannot run again.
	if _, err := s.Run(context.Background(), task.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("re-run err = %v, want ErrValidation", err)
	}
	if _, err := s.Run(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestScheduler_RunRecordsFailure(t *testing.T) {
	s := newTestScheduler()
	s.Handle(TaskSnapshot, func(ctx context.Context, task ScheduledTask) error {
		return fmt.Errorf("provider quota exhausted")
	})
	task, err := s.Schedule(TaskSnapshot, "growth", 0)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	done, err := s.Run(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if done.Status != TaskFailed {
		t.Errorf("status = %s, want %s", done.Status, TaskFailed)
	}
	if done.Err != "provider quota exhausted" {
		t.Errorf("recorded error = %q", done.Err)
	}
}

func TestScheduler_RunAllPendingHonorsDueTime(t *testing.T) {
	s := newTestScheduler()
	var ran []string
	s.Handle(TaskSnapshot, func(ctx context.Context, task ScheduledTask) error {
		ran = append(ran, task.Portfolio)
		return nil
	})

	if _, err := s.Schedule(TaskSnapshot, "due-now", 0); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := s.Schedule(TaskSnapshot, "due-later", time.Hour); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	finished, err := s.RunAllPending(context.Background())
	if err != nil {
		t.Fatalf("RunAllPending: %v", err)
	}
	if len(finished) != 1 || finished[0].Portfolio != "due-now" {
		t.Fatalf("finished = %+v, want only the due task", finished)
	}
	if len(ran) != 1 || ran[0] != "due-now" {
		t.Errorf("runner saw %v, want [due-now]", ran)
	}

	// The future task is still pending and runs once its time arrives.
	s.now = func() time.Time { return testInstant.Add(2 * time.Hour) }
	finished, err = s.RunAllPending(context.Background())
	if err != nil {
		t.Fatalf("RunAllPending: %v", err)
	}
	if len(finished) != 1 || finished[0].Portfolio != "due-later" {
		t.Fatalf("second round finished = %+v, want the deferred task", finished)
	}
}

func TestScheduler_ListAndClear(t *testing.T) {
	s := newTestScheduler()
	s.Handle(TaskSnapshot, func(ctx context.Context, task ScheduledTask) error { return nil })

	first, _ := s.Schedule(TaskSnapshot, "growth", 0)
	s.now = func() time.Time { return testInstant.Add(time.Minute) }
	second, _ := s.Schedule(TaskSnapshot, "income", 0)

	list := s.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("List ordering = %+v, want oldest first", list)
	}

	if _, err := s.Run(context.Background(), first.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cleared := s.ClearCompleted(); cleared != 1 {
		t.Errorf("ClearCompleted = %d, want 1", cleared)
	}
	if remaining := s.List(); len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Errorf("remaining = %+v, want only the pending task", remaining)
	}
}
