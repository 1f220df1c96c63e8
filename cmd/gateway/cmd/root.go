// Package cmd contains the CLI commands for gateway.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	gateway "github.com/gateway-license/gateway-go"
	"github.com/gateway-license/gateway-go/internal/config"
	"github.com/gateway-license/gateway-go/internal/logging"
)

var (
	// Version info (set from main)
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	// Global flags
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *logging.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Validate, activate and monitor GateWay licenses",
	Long: `gateway exercises the GateWay license SDK against the license API.

Settings are read from gateway.yaml (in the working directory or
~/.gateway), GATEWAY_* environment variables and flags, e.g.

  GATEWAY_API_KEY=... gateway validate --license-key ABC-123
  gateway demo --license-key ABC-123 --heartbeat-interval 1m`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and runs it.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets version information from the main package.
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./gateway.yaml or ~/.gateway/gateway.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("api-key", "", "API key sent in the x-api-key header")
	flags.String("base-url", "", "license API base URL")
	flags.Duration("timeout", 0, "request timeout")
	flags.String("license-key", "", "license key")
	flags.String("hwid", "", "hardware id (default: generated for this machine)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(hwidCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(deactivateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(heartbeatCmd)
	rootCmd.AddCommand(demoCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	level := c.Log.Level
	if verbose {
		level = "debug"
	}

	logger = logging.NewStderr(level, c.Log.Format)
	gateway.Logger = logger
	cfg = c

	return nil
}

func newClient(extra ...gateway.ClientOption) (*gateway.Client, error) {
	options := append(cfg.ClientOptions(),
		gateway.WithLogger(logger),
		gateway.WithUserAgent("gateway-cli/"+version),
	)
	options = append(options, extra...)

	return gateway.NewClient(cfg.APIKey, options...)
}

// licenseTarget returns the configured license key and hwid, generating the
// hwid when none is configured.
func licenseTarget() (string, string, error) {
	if cfg.LicenseKey == "" {
		return "", "", gateway.ErrLicenseKeyMissing
	}

	hwid := cfg.HWID
	if hwid == "" {
		hwid = gateway.GenerateHWID()
	}

	return cfg.LicenseKey, hwid, nil
}

func printResult(w io.Writer, result gateway.Result) error {
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// versionCmd displays version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "gateway %s (sdk %s)\n", version, gateway.SDKVersion)
		fmt.Fprintf(out, "  Build time: %s\n", buildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", gitCommit)
	},
}
