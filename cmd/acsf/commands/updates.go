package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
	"github.com/fivetwenty-io/acsf-client/pkg/acsf"
)

// NewUpdatesCommand creates the updates command group.
func NewUpdatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "updates",
		Aliases: []string{"update"},
		Short:   "Manage code updates",
		Long:    "Start, follow, pause and list factory code updates",
	}

	cmd.AddCommand(newUpdatesStartCommand())
	cmd.AddCommand(newUpdatesListCommand())
	cmd.AddCommand(newUpdatesStatusCommand())
	cmd.AddCommand(newUpdatesPauseCommand(true))
	cmd.AddCommand(newUpdatesPauseCommand(false))

	return cmd
}

func newUpdatesStartCommand() *cobra.Command {
	var (
		scope      string
		sitesRef   string
		factoryRef string
		sitesType  []string
		startTime  string
		stackID    int
		opts       waitOptions
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a code update",
		Long:  "Deploy a new sites and/or factory ref. --wait follows the update until it finishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sitesRef == "" && factoryRef == "" {
				return ErrSitesRefRequired
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{"scope": scope}
			for key, value := range map[string]string{
				"sites_ref":   sitesRef,
				"factory_ref": factoryRef,
				"start_time":  startTime,
			} {
				if value != "" {
					options[key] = value
				}
			}

			if len(sitesType) > 0 {
				options["sites_type"] = sitesType
			}

			if stackID > 0 {
				options["stack_id"] = stackID
			}

			resp, err := client.Updates().Start(cmd.Context(), options)
			if err != nil {
				return err
			}

			if err := renderResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}

			if !opts.wait {
				return nil
			}

			updateID, err := acsf.TaskID(resp)
			if err != nil {
				return err
			}

			return waitForTask(cmd.Context(), cmd.OutOrStdout(), client.Update(updateID), opts)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "sites", "what to update (sites, factory, both)")
	cmd.Flags().StringVar(&sitesRef, "sites-ref", "", "branch or tag to deploy to sites")
	cmd.Flags().StringVar(&factoryRef, "factory-ref", "", "branch or tag to deploy to the factory")
	cmd.Flags().StringSliceVar(&sitesType, "sites-type", []string{"code"}, "update kinds (code, db, registry)")
	cmd.Flags().StringVar(&startTime, "start-time", "", `"now" or a unix timestamp`)
	cmd.Flags().IntVar(&stackID, "stack", 0, "stack to update")
	addWaitFlags(cmd, &opts, true)

	return cmd
}

func newUpdatesListCommand() *cobra.Command {
	var (
		limit int
		page  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List code updates",
		Long:  "List recent code updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Updates().List(cmd.Context(), map[string]any{"limit": limit, "page": page})
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "results per page (max 100)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	return cmd
}

func newUpdatesStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status UPDATE_ID",
		Short: "Show update progress",
		Long:  "Fetch the progress of a code update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updateID, err := parseID(args[0], constants.ErrInvalidUpdateID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			snapshot, err := client.Update(updateID).Status(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), snapshot)
		},
	}
}

func newUpdatesPauseCommand(pause bool) *cobra.Command {
	use, short := "resume UPDATE_ID", "Resume an update"
	if pause {
		use, short = "pause UPDATE_ID", "Pause an update"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + " between site batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updateID, err := parseID(args[0], constants.ErrInvalidUpdateID)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Update(updateID).Pause(cmd.Context(), pause)
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}
