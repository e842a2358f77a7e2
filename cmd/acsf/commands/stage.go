package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStageCommand creates the stage command group.
func NewStageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Stage sites to lower environments",
		Long:  "Copy production sites down to a non-production environment",
	}

	cmd.AddCommand(newStageEnvironmentsCommand())
	cmd.AddCommand(newStageRunCommand())

	return cmd
}

func newStageEnvironmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "environments",
		Short: "List stageable environments",
		Long:  "List the environments this factory can stage to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			environments, err := client.Stage().Environments(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			done, err := encode(w, environments)
			if done || err != nil {
				return err
			}

			rows := make([][]string, len(environments))
			for i, environment := range environments {
				rows[i] = []string{environment}
			}

			return renderTable(w, []string{"Environment"}, rows)
		},
	}
}

func newStageRunCommand() *cobra.Command {
	var (
		wipe      bool
		syncUsers bool
		detailed  bool
		opts      waitOptions
	)

	cmd := &cobra.Command{
		Use:   "run ENVIRONMENT SITE_ID...",
		Short: "Stage sites",
		Long: `Stage one or more sites to ENVIRONMENT. The environment must be one
reported by "acsf stage environments".`,
		Args: cobra.MinimumNArgs(2), //nolint:mnd // environment plus at least one site
		RunE: func(cmd *cobra.Command, args []string) error {
			siteIDs := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				siteIDs = append(siteIDs, arg)
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Stage().Stage(cmd.Context(), args[0], siteIDs, map[string]any{
				"wipe_target_environment": wipe,
				"synchronize_all_users":   syncUsers,
				"detailed_status":         detailed,
			})
			if err != nil {
				return fmt.Errorf("staging to %s: %w", args[0], err)
			}

			if err := renderResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}

			return followTaskResponse(cmd.Context(), cmd.OutOrStdout(), client, resp, opts)
		},
	}

	cmd.Flags().BoolVar(&wipe, "wipe", false, "wipe the target environment first")
	cmd.Flags().BoolVar(&syncUsers, "sync-users", true, "synchronize all users")
	cmd.Flags().BoolVar(&detailed, "detailed-status", false, "send detailed status notifications")
	addWaitFlags(cmd, &opts, true)

	return cmd
}
