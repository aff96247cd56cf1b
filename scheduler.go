package tracker

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskType names what a scheduled task will do when run.
type TaskType string

// TaskSnapshot freezes the daily snapshots of one portfolio.
const TaskSnapshot TaskType = "snapshot"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// ScheduledTask is one unit of deferred work. Tasks live in memory only: a
// restart loses them, which is acceptable because every task can simply be
// scheduled again and the work itself is idempotent.
type ScheduledTask struct {
	ID           string
	Type         TaskType
	Portfolio    string
	ScheduledFor time.Time
	Status       TaskStatus
	CreatedAt    time.Time
	CompletedAt  time.Time
	Err          string
}

// Due reports whether the task's scheduled time has passed.
func (t ScheduledTask) Due(now time.Time) bool { return !t.ScheduledFor.After(now) }

// TaskRunner executes one task.
type TaskRunner func(ctx context.Context, task ScheduledTask) error

// TaskScheduler tracks tasks and runs them on demand. Nothing here fires by
// itself: execution is always an explicit Run or RunAllPending call, so the
// operator stays in control of when provider quota is spent.
type TaskScheduler struct {
	mu      sync.Mutex
	tasks   map[string]*ScheduledTask
	runners map[TaskType]TaskRunner
	now     func() time.Time // injectable for tests
}

// NewTaskScheduler returns an empty scheduler.
func NewTaskScheduler() *TaskScheduler {
	return &TaskScheduler{
		tasks:   make(map[string]*ScheduledTask),
		runners: make(map[TaskType]TaskRunner),
		now:     time.Now,
	}
}

// Handle registers the runner executing tasks of one type.
func (s *TaskScheduler) Handle(taskType TaskType, runner TaskRunner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runners[taskType] = runner
}

// Schedule records a new pending task due after the given delay.
func (s *TaskScheduler) Schedule(taskType TaskType, portfolio string, delay time.Duration) (ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runners[taskType]; !ok {
		return ScheduledTask{}, fmt.Errorf("%w: no runner for task type %q", ErrValidation, taskType)
	}
	now := s.now()
	task := &ScheduledTask{
		ID:           uuid.NewString(),
		Type:         taskType,
		Portfolio:    portfolio,
		ScheduledFor: now.Add(delay),
		Status:       TaskPending,
		CreatedAt:    now,
	}
	s.tasks[task.ID] = task
	log.Printf("scheduled %s task %s for portfolio %q at %s", taskType, task.ID, portfolio, task.ScheduledFor.Format(time.RFC3339))
	return *task, nil
}

// Get returns a task by ID.
func (s *TaskScheduler) Get(id string) (ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return ScheduledTask{}, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	return *task, nil
}

// List returns all tasks, oldest first.
func (s *TaskScheduler) List() []ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]ScheduledTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		list = append(list, *task)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

// Run executes one pending task now, regardless of its scheduled time.
// Running a task that is not pending is a validation error.
func (s *TaskScheduler) Run(ctx context.Context, id string) (ScheduledTask, error) {
	s.mu.Lock()
	task, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return ScheduledTask{}, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	if task.Status != TaskPending {
		s.mu.Unlock()
		return *task, fmt.Errorf("%w: task %q is %s, only pending tasks can run", ErrValidation, id, task.Status)
	}
	runner := s.runners[task.Type]
	task.Status = TaskRunning
	snapshot := *task
	s.mu.Unlock()

	err := runner(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	task.CompletedAt = s.now()
	if err != nil {
		task.Status = TaskFailed
		task.Err = err.Error()
		log.Printf("task %s failed: %v", id, err)
	} else {
		task.Status = TaskCompleted
		log.Printf("task %s completed", id)
	}
	return *task, nil
}

// RunAllPending executes every pending task whose scheduled time has passed
// and returns them in their final state.
func (s *TaskScheduler) RunAllPending(ctx context.Context) ([]ScheduledTask, error) {
	now := s.now()
	var due []string
	for _, task := range s.List() {
		if task.Status == TaskPending && task.Due(now) {
			due = append(due, task.ID)
		}
	}
	var finished []ScheduledTask
	for _, id := range due {
		task, err := s.Run(ctx, id)
		if err != nil {
			return finished, err
		}
		finished = append(finished, task)
		if err := ctx.Err(); err != nil {
			return finished, err
		}
	}
	return finished, nil
}

// ClearCompleted drops completed and failed tasks and returns how many.
func (s *TaskScheduler) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := 0
	for id, task := range s.tasks {
		if task.Status == TaskCompleted || task.Status == TaskFailed {
			delete(s.tasks, id)
			cleared++
		}
	}
	return cleared
}
