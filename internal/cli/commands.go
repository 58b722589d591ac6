package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/database"
	"gitcollab/internal/infrastructure/encryption"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := db.MigrationVersion()
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"driver": db.Driver(), "version": version})
			}
			printf(cmd.OutOrStdout(), "database (%s) at migration version %d\n", db.Driver(), version)
			return nil
		},
	}
}

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new ENCRYPTION_KEY value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := encryption.GenerateKey()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", key)
			return nil
		},
	}
}

func newRequestsCommand(opts *options) *cobra.Command {
	requests := &cobra.Command{
		Use:   "requests",
		Short: "Inspect contributor requests",
	}

	var owner, project string
	pending := &cobra.Command{
		Use:   "pending",
		Short: "List pending requests for an owner, optionally narrowed to one project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			u, err := app.Services.Users.GetUserByUsername(ctx, owner)
			if err != nil {
				return err
			}

			var list *dto.ContributorRequestListResponse
			if project != "" {
				list, err = app.Services.Requests.ListPendingForProject(ctx, u.ID, project)
			} else {
				list, err = app.Services.Requests.ListPendingForOwner(ctx, u.ID)
			}
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			if len(list.Requests) == 0 {
				printf(cmd.OutOrStdout(), "no pending requests\n")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tREQUESTER\tREPOSITORY\tCREATED")
			for _, r := range list.Requests {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.RequesterUsername, r.RepositoryURL, r.CreatedAt)
			}
			return tw.Flush()
		},
	}
	pending.Flags().StringVar(&owner, "owner", "", "username of the project owner")
	pending.Flags().StringVar(&project, "project", "", "project ID")
	_ = pending.MarkFlagRequired("owner")

	requests.AddCommand(pending)
	return requests
}

func newDecideCommand(opts *options) *cobra.Command {
	var actingAs string
	cmd := &cobra.Command{
		Use:   "decide <request-id> <accept|reject>",
		Short: "Accept or reject a contributor request as the project owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			u, err := app.Services.Users.GetUserByUsername(ctx, actingAs)
			if err != nil {
				return err
			}

			resp, err := app.Services.Invitations.Decide(ctx, u.ID, args[0], args[1])
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printf(cmd.OutOrStdout(), "request %s %s", resp.RequestID, resp.Status)
			if resp.Outcome != "" {
				printf(cmd.OutOrStdout(), " (%s)", resp.Outcome)
			}
			if resp.RemainingCapacity != nil {
				printf(cmd.OutOrStdout(), ", %d contributor slot(s) left", *resp.RemainingCapacity)
			}
			printf(cmd.OutOrStdout(), "\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&actingAs, "as", "", "username of the project owner making the decision")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func newProjectsCommand(opts *options) *cobra.Command {
	projects := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	var actingAs string
	fillSlot := &cobra.Command{
		Use:   "fill-slot <project-id>",
		Short: "Record a contributor added outside gitcollab, lowering the open slots by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.openApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			u, err := app.Services.Users.GetUserByUsername(ctx, actingAs)
			if err != nil {
				return err
			}

			p, err := app.Services.Projects.FillSlot(ctx, u.ID, args[0])
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			printf(cmd.OutOrStdout(), "%s: %d contributor slot(s) left\n", p.RepositoryURL, p.ContributorsNeeded)
			return nil
		},
	}
	fillSlot.Flags().StringVar(&actingAs, "as", "", "username of the project owner")
	_ = fillSlot.MarkFlagRequired("as")

	projects.AddCommand(fillSlot)
	return projects
}
