package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/spf13/cobra"
)

func newTasksCommand(c *cli) *cobra.Command {
	return groupCommand("tasks", "Follow backend tasks",
		newTasksListCommand(c),
		newTasksGetCommand(c),
	)
}

func printTasks(p *printer, snap console.TaskCenterSnapshot) error {
	return p.object(snap, func(w io.Writer) {
		row(w, "ID", "TYPE", "SUBJECT", "STATUS", "PROGRESS", "MESSAGE", "CREATED")
		for _, t := range snap.Items {
			row(w, t.ID, t.Type.Label(), orDash(t.Subject()), t.Status,
				fmt.Sprintf("%d%%", t.Progress), orDash(t.Message), since(t.CreatedAt))
		}
		row(w)
		status := fmt.Sprintf("%d of %d tasks", len(snap.Items), snap.Total)
		if snap.AutoRefresh {
			status += ", refreshing"
		}
		if snap.Stale {
			status += fmt.Sprintf(", stale: %s", snap.LastError)
		}
		row(w, status)
	})
}

func newTasksListCommand(c *cli) *cobra.Command {
	var (
		pages int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			observer := newFetchObserver(console.ViewTasks)
			tasks := console.NewTaskCenter(c.client, console.TaskCenterConfig{
				PageSize:        c.cfg.Console.TaskPageSize,
				RefreshInterval: c.cfg.Console.TaskRefreshInterval,
			}, c.log, observer)
			defer tasks.Close()

			if err := tasks.Open(ctx); err != nil {
				return err
			}
			for i := 1; i < pages && tasks.Snapshot().HasMore; i++ {
				if err := tasks.LoadMore(ctx); err != nil {
					return err
				}
			}

			p := c.printer()
			if err := printTasks(p, tasks.Snapshot()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			select {
			case <-observer.fetched:
			default:
			}
			for tasks.Snapshot().AutoRefresh {
				select {
				case <-ctx.Done():
					return nil
				case <-observer.fetched:
					fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
					if err := printTasks(p, tasks.Snapshot()); err != nil {
						return err
					}
				}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "no pending or running tasks on the first page")
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Refresh while tasks are pending or running")
	return cmd
}

func newTasksGetCommand(c *cli) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			if wait {
				if err := c.waitTask(ctx, cmd.ErrOrStderr(), args[0]); err != nil {
					return err
				}
			}
			task, err := c.client.GetTask(ctx, args[0])
			if err != nil {
				return err
			}
			return c.printer().object(task, func(w io.Writer) {
				printTask(w, task)
			})
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the task finishes")
	return cmd
}

func printTask(w io.Writer, t *types.Task) {
	row(w, "ID:", t.ID)
	row(w, "Type:", t.Type.Label())
	row(w, "Status:", t.Status)
	row(w, "Progress:", fmt.Sprintf("%d%%", t.Progress))
	row(w, "Target:", orDash(t.TargetID))
	row(w, "Message:", orDash(t.Message))
	row(w, "Created:", t.CreatedAt.Format(time.RFC3339))
	row(w, "Updated:", t.UpdatedAt.Format(time.RFC3339))

	switch r := t.Result.(type) {
	case types.CloneResult:
		row(w, "Clone:", r.Source+" -> "+r.Target)
		row(w, "VMX:", orDash(r.NewVMXPath))
		ip := "not configured"
		if r.IPConfigured {
			ip = "configured"
		}
		if r.IPMessage != "" {
			ip += " (" + r.IPMessage + ")"
		}
		row(w, "Guest IP:", ip)
	case types.PowerResult:
		row(w, "Power:", orDash(r.Action)+" -> "+orDash(r.PowerState))
	case types.RawResult:
		row(w, "Result:", string(r.Data))
	}
}
