package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// scheduleCmd records a snapshot task to run later.
type scheduleCmd struct {
	portfolio string
	delay     time.Duration
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "schedule a snapshot task" }
func (*scheduleCmd) Usage() string {
	return `ipt schedule [-p <portfolio>] [-after <duration>]

  Records a pending snapshot task due after the given delay, for one
  portfolio with -p, for every portfolio without. Nothing runs by itself:
  execute tasks with 'ipt run'.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to snapshot (default every portfolio)")
	f.DurationVar(&c.delay, "after", 0, "Delay before the task is due, e.g. 30m or 2h")
}

func (c *scheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	task, err := service.ScheduleSnapshot(c.portfolio, c.delay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling task: %v\n", err)
		return subcommands.ExitFailure
	}
	name := task.Portfolio
	if name == "" {
		name = "all portfolios"
	}
	fmt.Printf("Scheduled task %s for %s, due %s\n", task.ID, name, task.ScheduledFor.Format(time.RFC3339))
	return subcommands.ExitSuccess
}

// taskRunCmd executes one task by ID, or every due task.
type taskRunCmd struct {
	id  string
	due bool
}

func (*taskRunCmd) Name() string     { return "run" }
func (*taskRunCmd) Synopsis() string { return "run a scheduled task" }
func (*taskRunCmd) Usage() string {
	return `ipt run -id <task-id>
ipt run -due

  Runs one pending task by ID regardless of its due time, or with -due every
  pending task whose time has come.
`
}

func (c *taskRunCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Task to run")
	f.BoolVar(&c.due, "due", false, "run every pending task whose time has come")
}

func (c *taskRunCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" && !c.due {
		fmt.Fprintln(os.Stderr, "Error: -id <task-id> or -due is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.due {
		finished, err := service.RunDueTasks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running due tasks: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, task := range finished {
			fmt.Printf("Task %s: %s\n", task.ID, task.Status)
		}
		return subcommands.ExitSuccess
	}
	task, err := service.RunTask(ctx, c.id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running task: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Task %s: %s\n", task.ID, task.Status)
	return subcommands.ExitSuccess
}

// taskListCmd lists all known tasks.
type taskListCmd struct{}

func (*taskListCmd) Name() string             { return "tasks" }
func (*taskListCmd) Synopsis() string         { return "list the scheduled tasks" }
func (*taskListCmd) SetFlags(f *flag.FlagSet) {}
func (*taskListCmd) Usage() string {
	return `ipt tasks

  Lists all known tasks, oldest first.
`
}

func (c *taskListCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TasksMarkdown(service.Tasks()))
	return subcommands.ExitSuccess
}

// taskClearCmd drops finished tasks.
type taskClearCmd struct{}

func (*taskClearCmd) Name() string             { return "clear-tasks" }
func (*taskClearCmd) Synopsis() string         { return "drop completed and failed tasks" }
func (*taskClearCmd) SetFlags(f *flag.FlagSet) {}
func (*taskClearCmd) Usage() string {
	return `ipt clear-tasks

  Drops completed and failed tasks from the task list.
`
}

func (c *taskClearCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Cleared %d tasks\n", service.ClearCompletedTasks())
	return subcommands.ExitSuccess
}
