package cmd

import (
	"github.com/spf13/cobra"

	gateway "github.com/gateway-license/gateway-go"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the license for this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		key, hwid, err := licenseTarget()
		if err != nil {
			return err
		}

		result, err := client.ValidateLicense(cmd.Context(), key, hwid, validateOptions()...)
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), result)
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate the license on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		key, hwid, err := licenseTarget()
		if err != nil {
			return err
		}

		result, err := client.ActivateLicense(cmd.Context(), key, hwid, activateOptions()...)
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), result)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Release the license activation of this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		key, hwid, err := licenseTarget()
		if err != nil {
			return err
		}

		result, err := client.DeactivateLicense(cmd.Context(), key, hwid)
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), result)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show license details and activations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if cfg.LicenseKey == "" {
			return gateway.ErrLicenseKeyMissing
		}

		result, err := client.GetLicenseInfo(cmd.Context(), cfg.LicenseKey)
		if err != nil {
			return err
		}

		return printResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	validateCmd.Flags().String("product-id", "", "only accept licenses for this product")
	activateCmd.Flags().String("machine-name", "", "machine name recorded with the activation (default: host name)")
	demoCmd.Flags().String("product-id", "", "only accept licenses for this product")
	demoCmd.Flags().String("machine-name", "", "machine name recorded with the activation (default: host name)")
}

func validateOptions() []gateway.ValidateOption {
	if cfg.ProductID == "" {
		return nil
	}

	return []gateway.ValidateOption{gateway.ValidateProduct(cfg.ProductID)}
}

func activateOptions() []gateway.ActivateOption {
	if cfg.MachineName == "" {
		return nil
	}

	return []gateway.ActivateOption{gateway.ActivateMachineName(cfg.MachineName)}
}
