package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nirarg/esxi-console/internal/console"
	"github.com/nirarg/esxi-console/pkg/types"
	"github.com/spf13/cobra"
)

func newCredentialsCommand(c *cli) *cobra.Command {
	return groupCommand("credentials", "Manage stored guest credentials",
		newCredentialsListCommand(c),
		newCredentialsCreateCommand(c),
		newCredentialsDeleteCommand(c),
	)
}

func (c *cli) credentials() *console.CredentialSelector {
	return console.NewCredentialSelector(c.client, c.log, nil)
}

func printCredentials(p *printer, creds []types.Credential) error {
	return p.object(creds, func(w io.Writer) {
		row(w, "ID", "NAME", "USERNAME", "DESCRIPTION", "CREATED")
		for _, cred := range creds {
			row(w, cred.ID, cred.Name, cred.Username, orDash(cred.Description), since(cred.CreatedAt))
		}
	})
}

func newCredentialsListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := c.credentials().Load(commandContext(cmd))
			if err != nil {
				return err
			}
			return printCredentials(c.printer(), creds)
		},
	}
}

func newCredentialsCreateCommand(c *cli) *cobra.Command {
	var req types.CreateCredentialRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Store a guest login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := c.credentials().Create(commandContext(cmd), req)
			if err != nil {
				return err
			}
			return printCredentials(c.printer(), []types.Credential{*cred})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Username, "username", "root", "Guest user")
	cmd.Flags().StringVar(&req.Password, "password", "", "Guest password")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free form description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCredentialsDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid credential id %q", args[0])
			}
			if err := c.credentials().Delete(commandContext(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credential %d deleted\n", id)
			return nil
		},
	}
}
