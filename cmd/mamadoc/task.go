package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/capraCoder/mamadoc/internal/tasks"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage personal tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a personal task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var (
	taskAddDeadline string
	taskAddNotes    string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List personal tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskListAll bool

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskDoneUndo bool

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDeadline, "deadline", "", "deadline as YYYY-MM-DD")
	taskAddCmd.Flags().StringVar(&taskAddNotes, "notes", "", "free-form notes")
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "include completed tasks")
	taskDoneCmd.Flags().BoolVar(&taskDoneUndo, "undo", false, "mark the task not done again")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cmdSpec := tasks.CreateCommand{
		Description: args[0],
		Notes:       taskAddNotes,
	}
	if taskAddDeadline != "" {
		if _, err := time.Parse("2006-01-02", taskAddDeadline); err != nil {
			return fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD", taskAddDeadline)
		}
		cmdSpec.Deadline = &taskAddDeadline
	}

	task, err := a.domain.Tasks.Create(cmd.Context(), cmdSpec)
	if err != nil {
		return err
	}

	fmt.Printf("added %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	filters := tasks.Filters{}
	if !taskListAll {
		pending := false
		filters.Done = &pending
	}

	page := pagination.PageRequest{Page: 1, PageSize: 100}
	result, err := a.domain.Tasks.List(cmd.Context(), page, filters)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tDEADLINE\tDESCRIPTION")
	for _, task := range result.Data {
		done := " "
		if task.Done {
			done = "x"
		}
		deadline := "-"
		if task.Deadline != nil {
			deadline = *task.Deadline
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\n", task.ID, done, deadline, task.Description)
	}
	return w.Flush()
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return tasks.ErrInvalidID
	}

	task, err := a.domain.Tasks.SetDone(cmd.Context(), id, !taskDoneUndo)
	if err != nil {
		return err
	}

	state := "done"
	if !task.Done {
		state = "not done"
	}
	fmt.Printf("%s is %s\n", task.ID, state)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return tasks.ErrInvalidID
	}

	if err := a.domain.Tasks.Delete(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Printf("removed %s\n", id)
	return nil
}
