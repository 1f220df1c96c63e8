package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gateway "github.com/gateway-license/gateway-go"
)

var (
	heartbeatWatch  bool
	heartbeatStatus string
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Send a heartbeat, or keep sending them with --watch",
	Long: `Send a single heartbeat for the license.

With --watch, heartbeats are sent every --heartbeat-interval on a background
loop until the process is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, hwid, err := licenseTarget()
		if err != nil {
			return err
		}

		if !heartbeatWatch {
			client, err := newClient()
			if err != nil {
				return err
			}

			result, err := client.SendHeartbeat(cmd.Context(), key, hwid, gateway.HeartbeatStatus(heartbeatStatus))
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result)
		}

		client, err := newClient(gateway.WithHeartbeatErrorHandler(func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "heartbeat error: %v\n", err)
		}))
		if err != nil {
			return err
		}

		logger.Zerolog().Info().
			Str("license_key", key).
			Str("hwid", hwid).
			Dur("interval", cfg.Heartbeat.Interval).
			Msg("sending heartbeats, press Ctrl+C to stop")

		client.StartHeartbeat(key, hwid, cfg.Heartbeat.Interval)
		<-cmd.Context().Done()
		client.StopHeartbeat()

		logger.Zerolog().Info().Msg("heartbeat stopped")

		return nil
	},
}

func init() {
	flags := heartbeatCmd.Flags()
	flags.BoolVar(&heartbeatWatch, "watch", false, "keep sending heartbeats until interrupted")
	flags.StringVar(&heartbeatStatus, "status", gateway.HeartbeatStatusRunning, "application status reported with the heartbeat")
	flags.Duration("heartbeat-interval", 0, "interval between heartbeats with --watch")
}
