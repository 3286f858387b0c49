package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/services"
	"github.com/spf13/cobra"
)

const defaultPingURL = "http://localhost:9000" + ReadyEndpoint

// CreateServeCmd create serve command
func CreateServeCmd(handler func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "command for starting HTTP server and connections to third services",
		RunE:  handler,
	}
}

// CreatePingCmd creates command checking health endpoint of running
// service, useful as container healthcheck.
func CreatePingCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "command for checking health of running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := services.PingRemoteService(cmd.Context(), url)
			if err != nil {
				return errors.Wrapf(err, "ping %s", url)
			}

			fmt.Fprintln(cmd.OutOrStdout(), status.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", defaultPingURL, "health endpoint url")

	return cmd
}
