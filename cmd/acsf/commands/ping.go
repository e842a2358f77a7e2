package commands

import (
	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and credentials",
		Long:  "Call the factory ping endpoint to verify the URL and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			resp, err := client.Ping(cmd.Context())
			if err != nil {
				return err
			}

			return renderResponse(cmd.OutOrStdout(), resp)
		},
	}
}
