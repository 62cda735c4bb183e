package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/spf13/cobra"
)

func newVMsCommand(c *cli) *cobra.Command {
	return groupCommand("vms", "Inspect and operate virtual machines",
		newVMsListCommand(c),
		newVMsPowerCommand(c),
		newVMsCloneCommand(c),
		newVMsInstallToolsCommand(c),
		newVMsEditCommand(c),
		newVMsSnapshotsCommand(c),
		newVMsConsoleCommand(c),
	)
}

// fetchObserver signals every completed fetch of one view
type fetchObserver struct {
	view    string
	fetched chan struct{}
}

func newFetchObserver(view string) *fetchObserver {
	return &fetchObserver{view: view, fetched: make(chan struct{}, 1)}
}

func (o *fetchObserver) FetchCompleted(view string, _ time.Duration, _ error) {
	if view != o.view {
		return
	}
	select {
	case o.fetched <- struct{}{}:
	default:
	}
}

func (o *fetchObserver) ActionSubmitted(console.Submission) {}
func (o *fetchObserver) FastWindowChanged(string, bool)     {}

func printVMs(p *printer, snap console.VMListSnapshot) error {
	return p.object(snap, func(w io.Writer) {
		row(w, "ID", "NAME", "HOST", "POWER", "IP", "CPU", "MEMORY", "TOOLS")
		for _, vm := range snap.Items {
			tools := orDash(vm.ToolsStatus)
			if vm.NeedsTools() {
				tools += " (install-tools)"
			}
			row(w, vm.ID, vm.Name, vm.HostIP, vm.PowerState, orDash(vm.IPAddress),
				vm.CPUCount, fmt.Sprintf("%d MB", vm.MemoryMB), tools)
		}
		row(w)
		status := fmt.Sprintf("page %d/%d, %d VMs, refresh every %s",
			snap.Filter.Page, max(snap.TotalPages, 1), snap.Total,
			time.Duration(snap.IntervalSeconds*float64(time.Second)))
		if snap.FastPolling {
			status += " (fast polling)"
		}
		if snap.Stale {
			status += fmt.Sprintf(", stale: %s", snap.LastError)
		}
		row(w, status)
	})
}

func newVMsListCommand(c *cli) *cobra.Command {
	var (
		keyword  string
		hostID   int
		status   string
		page     int
		pageSize int
		refresh  int
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List VMs, optionally following changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			observer := newFetchObserver(console.ViewVMs)
			session, err := console.NewSession(c.client, c.cfg.Console, c.log, observer)
			if err != nil {
				return err
			}
			defer session.Close()

			vms := session.VMs
			if refresh > 0 {
				if err := vms.SetRefreshMinutes(refresh); err != nil {
					return err
				}
			}
			update := console.FilterUpdate{
				KeywordSubmit: &keyword,
				HostID:        &hostID,
				Status:        &status,
			}
			if pageSize > 0 {
				update.PageSize = &pageSize
			}
			if err := vms.Apply(ctx, update); err != nil {
				return err
			}
			if err := vms.Open(ctx); err != nil {
				return err
			}
			if page > 1 {
				if err := vms.SetPage(ctx, page); err != nil {
					return err
				}
			}

			p := c.printer()
			if err := printVMs(p, vms.Snapshot()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			// drop the signal of the fetches already printed
			select {
			case <-observer.fetched:
			default:
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-observer.fetched:
					fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
					if err := printVMs(p, vms.Snapshot()); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&keyword, "keyword", "", "Match VM name or IP")
	cmd.Flags().IntVar(&hostID, "host", 0, "Only VMs of this host ID")
	cmd.Flags().StringVar(&status, "status", "", "Power state filter: poweredOn, poweredOff or suspended")
	cmd.Flags().IntVar(&page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "VMs per page (default from console.vm_page_size)")
	cmd.Flags().IntVar(&refresh, "refresh", 0, "Base refresh interval in minutes while watching")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and reprint on every refresh")
	return cmd
}

// findVM pages through the inventory until id is found
func (c *cli) findVM(ctx context.Context, id string) (*types.VirtualMachine, error) {
	const pageSize = 100
	for page := 1; ; page++ {
		res, err := c.client.ListVMs(ctx, types.VMListParams{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		for i := range res.Items {
			if res.Items[i].ID == id {
				return &res.Items[i], nil
			}
		}
		if len(res.Items) == 0 || page*pageSize >= res.Total {
			return nil, fmt.Errorf("VM %s not found", id)
		}
	}
}

// waitTask polls a task until it finishes, printing progress changes
func (c *cli) waitTask(ctx context.Context, w io.Writer, id string) error {
	interval := c.cfg.Console.TaskRefreshInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := -1
	for {
		task, err := c.client.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if task.Progress != last {
			fmt.Fprintf(w, "%s %s %d%% %s\n", task.Type.Label(), task.Status, task.Progress, task.Message)
			last = task.Progress
		}
		switch task.Status {
		case types.TaskStatusSuccess:
			return nil
		case types.TaskStatusFailed:
			return fmt.Errorf("task %s failed: %s", id, task.Message)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *cli) printSubmitted(cmd *cobra.Command, resp *types.AsyncTaskResponse, wait bool) error {
	if err := c.printer().object(resp, func(w io.Writer) {
		row(w, "task", resp.TaskID, resp.Status, resp.Message)
	}); err != nil {
		return err
	}
	if !wait || resp.TaskID == "" {
		return nil
	}
	return c.waitTask(commandContext(cmd), cmd.ErrOrStderr(), resp.TaskID)
}

func newVMsPowerCommand(c *cli) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "power <id> <powerOn|shutdown|powerOff|reboot|reset|suspend>",
		Short: "Submit a power operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := types.ParsePowerAction(args[1])
			if err != nil {
				return err
			}
			resp, err := c.client.PowerAction(commandContext(cmd), args[0], action)
			if err != nil {
				return err
			}
			return c.printSubmitted(cmd, resp, wait)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Follow the task until it finishes")
	return cmd
}

func newVMsCloneCommand(c *cli) *cobra.Command {
	var (
		name      string
		datastore string
		powerOn   bool
		ip        string
		username  string
		password  string
		netmask   string
		gateway   string
		dns       string
		nic       string
		wait      bool
	)

	cmd := &cobra.Command{
		Use:   "clone <id>",
		Short: "Clone a powered off VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			vm, err := c.findVM(ctx, args[0])
			if err != nil {
				return err
			}

			form := console.NewCloneForm(*vm)
			if name != "" {
				form.Name = name
			}
			form.Datastore = datastore
			form.PowerOn = powerOn
			if ip != "" {
				form.CustomizeIP = true
				form.IP = ip
				form.Password = password
				if username != "" {
					form.Username = username
				}
				if netmask != "" {
					form.Netmask = netmask
				}
				if dns != "" {
					form.DNS = dns
				}
				if nic != "" {
					form.NIC = nic
				}
				form.Gateway = gateway
			}

			req, err := form.Request()
			if err != nil {
				return err
			}
			resp, err := c.client.CloneVM(ctx, vm.ID, req)
			if err != nil {
				return err
			}
			return c.printSubmitted(cmd, resp, wait)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "Clone name (default <source>-clone)")
	flags.StringVar(&datastore, "datastore", "", "Target datastore (default: source datastore)")
	flags.BoolVar(&powerOn, "power-on", true, "Power on the clone")
	flags.StringVar(&ip, "ip", "", "Configure this guest IP in the clone")
	flags.StringVar(&username, "guest-username", "", "Guest login used for IP configuration")
	flags.StringVar(&password, "guest-password", "", "Guest password used for IP configuration")
	flags.StringVar(&netmask, "netmask", "", "Guest netmask")
	flags.StringVar(&gateway, "gateway", "", "Guest gateway")
	flags.StringVar(&dns, "dns", "", "Guest DNS servers, comma separated")
	flags.StringVar(&nic, "nic", "", "Guest NIC name")
	flags.BoolVar(&wait, "wait", false, "Follow the task until it finishes")
	return cmd
}

func newVMsInstallToolsCommand(c *cli) *cobra.Command {
	var (
		ip           string
		username     string
		password     string
		credentialID int
		wait         bool
	)

	cmd := &cobra.Command{
		Use:   "install-tools <id>",
		Short: "Install guest tools over SSH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			vm, err := c.findVM(ctx, args[0])
			if err != nil {
				return err
			}

			form := console.NewInstallToolsForm(*vm)
			if ip != "" {
				form.IP = ip
			}
			if username != "" {
				form.Username = username
			}
			if credentialID > 0 {
				creds := console.NewCredentialSelector(c.client, c.log, nil)
				if _, err := creds.Load(ctx); err != nil {
					return err
				}
				if err := creds.Select(credentialID, form); err != nil {
					return err
				}
			}
			form.Password = password

			req, err := form.Request()
			if err != nil {
				return err
			}
			resp, err := c.client.InstallTools(ctx, vm.ID, req)
			if err != nil {
				return err
			}
			return c.printSubmitted(cmd, resp, wait)
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "Guest address (default: the VM's reported IP)")
	cmd.Flags().StringVar(&username, "username", "", "SSH user")
	cmd.Flags().StringVar(&password, "password", "", "SSH password")
	cmd.Flags().IntVar(&credentialID, "credential", 0, "Stored credential ID instead of a password")
	cmd.Flags().BoolVar(&wait, "wait", false, "Follow the task until it finishes")
	cmd.MarkFlagsMutuallyExclusive("password", "credential")
	return cmd
}

func newVMsEditCommand(c *cli) *cobra.Command {
	var req types.UpdateVMRequest

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a VM or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := c.client.UpdateVM(commandContext(cmd), args[0], req)
			if err != nil {
				return err
			}
			return c.printer().object(vm, func(w io.Writer) {
				row(w, vm.ID, vm.Name, orDash(vm.Description))
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "New name")
	cmd.Flags().StringVar(&req.Description, "description", "", "New description")
	cmd.MarkFlagsOneRequired("name", "description")
	return cmd
}

func newVMsSnapshotsCommand(c *cli) *cobra.Command {
	list := &cobra.Command{
		Use:   "list <id>",
		Short: "List the snapshots of a VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := c.client.ListSnapshots(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return c.printer().object(snaps, func(w io.Writer) {
				row(w, "ID", "NAME", "CREATED", "STATE", "DESCRIPTION")
				for _, s := range snaps {
					row(w, s.ID, s.Name, since(s.CreateTime), orDash(s.State), orDash(s.Description))
				}
			})
		},
	}

	var req types.SnapshotCreateRequest
	var wait bool
	create := &cobra.Command{
		Use:   "create <id>",
		Short: "Snapshot a VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" {
				return fmt.Errorf("--name is required")
			}
			resp, err := c.client.CreateSnapshot(commandContext(cmd), args[0], req)
			if err != nil {
				return err
			}
			return c.printSubmitted(cmd, resp, wait)
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "Snapshot name")
	create.Flags().StringVar(&req.Description, "description", "", "Snapshot description")
	create.Flags().BoolVar(&wait, "wait", false, "Follow the task until it finishes")

	var revertWait bool
	revert := &cobra.Command{
		Use:   "revert <id> <snapshot-id>",
		Short: "Revert a VM to a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.client.RevertSnapshot(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			return c.printSubmitted(cmd, resp, revertWait)
		},
	}
	revert.Flags().BoolVar(&revertWait, "wait", false, "Follow the task until it finishes")

	return groupCommand("snapshots", "Manage VM snapshots", list, create, revert)
}

func newVMsConsoleCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "console <id>",
		Short: "Print the remote console URL of a VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.client.ConsoleURL(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return c.printer().object(info, func(w io.Writer) {
				row(w, info.Type, info.URL)
			})
		},
	}
}
