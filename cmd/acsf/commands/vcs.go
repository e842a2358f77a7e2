package commands

import (
	"github.com/spf13/cobra"
)

// NewVcsCommand creates the vcs command group.
func NewVcsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcs",
		Short: "Inspect deployable code",
		Long:  "List deployable refs and stacks. Responses are cached when cache_type is configured",
	}

	cmd.AddCommand(newVcsRefsCommand())
	cmd.AddCommand(newVcsStacksCommand())

	return cmd
}

func newVcsRefsCommand() *cobra.Command {
	var (
		refType string
		stackID int
	)

	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List branches and tags",
		Long:  "List the branches and tags available to deploy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			options := map[string]any{"type": refType}
			if stackID > 0 {
				options["stack_id"] = stackID
			}

			resp, err := client.Vcs().Refs(cmd.Context(), options)
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&refType, "type", "sites", "sites or factory")
	cmd.Flags().IntVar(&stackID, "stack", 0, "stack to list refs for")

	return cmd
}

func newVcsStacksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stacks",
		Short: "List stacks",
		Long:  "List the factory's stacks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Stacks().List(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}
