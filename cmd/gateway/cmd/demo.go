package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	demoCycle           time.Duration
	demoRevalidateEvery int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a licensed application loop",
	Long: `Simulate an application protected by a license:

  1. validate the license (exit if invalid)
  2. activate it on this machine
  3. send heartbeats in the background while the application runs,
     revalidating every --revalidate-every cycles
  4. on Ctrl+C, stop heartbeats and deactivate the license`,
	RunE: runDemo,
}

func init() {
	flags := demoCmd.Flags()
	flags.DurationVar(&demoCycle, "cycle", 10*time.Second, "duration of one application cycle")
	flags.IntVar(&demoRevalidateEvery, "revalidate-every", 5, "revalidate the license every N cycles (0 disables)")
	flags.Duration("heartbeat-interval", 0, "interval between heartbeats")
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Zerolog()

	client, err := newClient()
	if err != nil {
		return err
	}

	key, hwid, err := licenseTarget()
	if err != nil {
		return err
	}

	log.Info().Str("license_key", key).Str("hwid", hwid).Msg("starting application")

	validation, err := client.ValidateLicense(ctx, key, hwid, validateOptions()...)
	if err != nil {
		return err
	}

	if !validation.Valid() {
		return fmt.Errorf("license is not valid: %s", validation.ErrorMessage())
	}

	activation, err := client.ActivateLicense(ctx, key, hwid, activateOptions()...)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("activation failed, continuing")
	case !activation.Success():
		log.Warn().Str("error", activation.ErrorMessage()).Msg("activation was rejected, continuing")
	default:
		log.Info().Str("message", activation.Message()).Msg("license activated")
	}

	client.StartHeartbeat(key, hwid, cfg.Heartbeat.Interval)

	defer func() {
		client.StopHeartbeat()
		log.Info().Msg("heartbeat stopped")

		// The command context is cancelled by now.
		dctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		result, err := client.DeactivateLicense(dctx, key, hwid)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("deactivation failed")
		case !result.Success():
			log.Warn().Str("error", result.ErrorMessage()).Msg("deactivation was rejected")
		default:
			log.Info().Str("message", result.Message()).Msg("license deactivated")
		}
	}()

	log.Info().Msg("application running, press Ctrl+C to stop")

	ticker := time.NewTicker(demoCycle)
	defer ticker.Stop()

	for cycle := 1; ; cycle++ {
		select {
		case <-ctx.Done():
			log.Info().Msg("stopping application")
			return nil
		case <-ticker.C:
		}

		log.Info().Int("cycle", cycle).Msg("application running")

		if demoRevalidateEvery <= 0 || cycle%demoRevalidateEvery != 0 {
			continue
		}

		result, err := client.ValidateLicense(ctx, key, hwid, validateOptions()...)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("revalidation failed")
		case !result.Valid():
			log.Warn().Str("error", result.ErrorMessage()).Msg("license is no longer valid")
		default:
			log.Info().Msg("license is still valid")
		}
	}
}
