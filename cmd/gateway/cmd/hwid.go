package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gateway "github.com/gateway-license/gateway-go"
)

var (
	hwidMachineID bool
	hwidAppID     string
)

var hwidCmd = &cobra.Command{
	Use:   "hwid",
	Short: "Print the hardware id of this machine",
	Long: `Print the hardware id used to bind licenses to this machine.

With --machine-id, print the OS machine id based fingerprint instead,
protected with --app-id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if hwidMachineID {
			id, err := gateway.MachineFingerprint(hwidAppID)
			if err != nil {
				return fmt.Errorf("error reading machine id: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)

			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), gateway.GenerateHWID())

		return nil
	},
}

func init() {
	hwidCmd.Flags().BoolVar(&hwidMachineID, "machine-id", false, "use the OS machine id instead of host metadata")
	hwidCmd.Flags().StringVar(&hwidAppID, "app-id", "gateway", "application id mixed into the machine id fingerprint")
}
