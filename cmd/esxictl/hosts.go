package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/spf13/cobra"
)

func newHostsCommand(c *cli) *cobra.Command {
	return groupCommand("hosts", "Manage ESXi hosts",
		newHostsListCommand(c),
		newHostsAddCommand(c, false),
		newHostsAddCommand(c, true),
		newHostsUpdateCommand(c),
		newHostsDeleteCommand(c),
		newHostsSyncCommand(c),
		newHostsReorderCommand(c),
	)
}

func (c *cli) hostList() *console.HostList {
	return console.NewHostList(c.client, c.cfg.Console.SyncRefreshDelay, c.log, nil)
}

func printHosts(p *printer, hosts []types.EsxiHost) error {
	return p.object(hosts, func(w io.Writer) {
		row(w, "ID", "IP", "HOSTNAME", "STATUS", "VERSION", "VMS", "CPU%", "MEM%", "STORAGE%", "DESCRIPTION")
		for _, h := range hosts {
			row(w, h.ID, h.IP, orDash(h.Hostname), h.Status, orDash(h.Version),
				fmt.Sprintf("%d/%d", h.VMsRunning, h.VMCount),
				fmt.Sprintf("%.1f", h.CPUUsage),
				fmt.Sprintf("%.1f", h.MemoryUsage),
				fmt.Sprintf("%.1f", h.StorageUsage()*100),
				orDash(h.Description))
		}
	})
}

func newHostsListCommand(c *cli) *cobra.Command {
	var sortKey string
	var ascending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hosts in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts := c.hostList()
			defer hosts.Close()
			if err := hosts.Open(commandContext(cmd)); err != nil {
				return err
			}
			if sortKey != "" {
				key, err := console.ParseHostSortKey(sortKey)
				if err != nil {
					return err
				}
				hosts.SortBy(key)
				if ascending {
					hosts.SortBy(key)
				}
			}
			return printHosts(c.printer(), hosts.Snapshot().Items)
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort column: ip, vm_count, cpu, memory, storage_usage, description, version")
	cmd.Flags().BoolVar(&ascending, "asc", false, "Sort ascending instead of descending")
	return cmd
}

func newHostsAddCommand(c *cli, probeOnly bool) *cobra.Command {
	var req types.AddHostRequest

	use, short := "add", "Register an ESXi host"
	if probeOnly {
		use, short = "probe", "Test the login to an ESXi host without registering it"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			hosts := c.hostList()
			defer hosts.Close()

			if probeOnly {
				result, err := hosts.Probe(ctx, req)
				if err != nil {
					return err
				}
				if err := c.printer().object(result, func(w io.Writer) {
					row(w, result.Message)
				}); err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("probe of %s failed", req.IP)
				}
				return nil
			}

			host, err := hosts.Add(ctx, req)
			if err != nil {
				return err
			}
			return printHosts(c.printer(), []types.EsxiHost{*host})
		},
	}

	cmd.Flags().StringVar(&req.IP, "ip", "", "Host address")
	cmd.Flags().IntVar(&req.Port, "port", 443, "Host API port")
	cmd.Flags().StringVar(&req.Username, "username", "root", "Login user")
	cmd.Flags().StringVar(&req.Password, "password", "", "Login password")
	if !probeOnly {
		cmd.Flags().StringVar(&req.Description, "description", "", "Free form description")
	}
	_ = cmd.MarkFlagRequired("ip")
	return cmd
}

func newHostsUpdateCommand(c *cli) *cobra.Command {
	var req types.UpdateHostRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a host's connection or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid host id %q", args[0])
			}
			hosts := c.hostList()
			defer hosts.Close()
			host, err := hosts.Update(commandContext(cmd), id, req)
			if err != nil {
				return err
			}
			return printHosts(c.printer(), []types.EsxiHost{*host})
		},
	}

	cmd.Flags().StringVar(&req.IP, "ip", "", "New address")
	cmd.Flags().IntVar(&req.Port, "port", 0, "New API port")
	cmd.Flags().StringVar(&req.Username, "username", "", "New login user")
	cmd.Flags().StringVar(&req.Password, "password", "", "New password (empty keeps the stored one)")
	cmd.Flags().StringVar(&req.Description, "description", "", "New description")
	return cmd
}

func newHostsDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a host from management",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid host id %q", args[0])
			}
			hosts := c.hostList()
			defer hosts.Close()
			if err := hosts.Delete(commandContext(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "host %d deleted\n", id)
			return nil
		},
	}
}

func newHostsSyncCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [id]",
		Short: "Resync one host or all hosts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hostID *int
			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid host id %q", args[0])
				}
				hostID = &id
			}
			result, err := c.client.SyncHosts(commandContext(cmd), hostID)
			if err != nil {
				return err
			}
			return c.printer().object(result, func(w io.Writer) {
				row(w, result.Message)
			})
		},
	}
}

func newHostsReorderCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Store the display order of all hosts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, a := range args {
				id, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid host id %q", a)
				}
				ids[i] = id
			}

			ctx := commandContext(cmd)
			hosts := c.hostList()
			defer hosts.Close()
			if err := hosts.Open(ctx); err != nil {
				return err
			}
			if err := hosts.SetOrder(ids); err != nil {
				return err
			}
			result, err := hosts.SaveOrder(ctx)
			if err != nil {
				return err
			}
			return c.printer().object(result, func(w io.Writer) {
				row(w, result.Message)
			})
		},
	}
}
