package main

import (
	"fmt"
	"io"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/spf13/cobra"
)

func newDashboardCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show inventory totals over all hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := console.NewDashboard(c.client, c.cfg.Console.DashboardRefresh, c.log, nil)
			defer d.Close()
			if err := d.Open(commandContext(cmd)); err != nil {
				return err
			}

			snap := d.Snapshot()
			return c.printer().object(snap.DashboardSummary, func(w io.Writer) {
				ds := snap.Datastores
				row(w, "Hosts:", fmt.Sprintf("%d online of %d", snap.OnlineHosts, snap.TotalHosts))
				row(w, "VMs:", fmt.Sprintf("%d running of %d", snap.RunningVMs, snap.TotalVMs))
				row(w, "CPU cores:", snap.TotalCores)
				row(w, "Memory:", fmt.Sprintf("%.0f GB", snap.TotalMemoryGB))
				row(w, "Datastores:", fmt.Sprintf("%d, %.0f GB free of %.0f GB",
					ds.TotalCount, ds.TotalFreeGB, ds.TotalCapacityGB))
			})
		},
	}
}
