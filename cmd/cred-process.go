package cmd

import (
	"github.com/spf13/cobra"
)

var credProcessOpts roleOptions

// credProcessCmd represents the cred-process command
var credProcessCmd = &cobra.Command{
	Use:     "cred-process <role-arn>",
	Short:   "cred-process generates a credential_process ready output",
	RunE:    credProcessRun,
	Example: "[profile foo]\ncredential_process = aws-mfa cred-process --profile base arn:aws:iam::123456789012:role/admin",
}

func init() {
	RootCmd.AddCommand(credProcessCmd)
	addRoleFlags(credProcessCmd, &credProcessOpts)
}

func credProcessRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return ErrTooFewArguments
	}
	if len(args) > 1 {
		return ErrTooManyArguments
	}

	if err := resolveRoleOptions(cmd, &credProcessOpts); err != nil {
		return err
	}

	cache, err := openCache()
	if err != nil {
		return err
	}

	output, hit, err := retrieve(cmd.Context(), cache, args[0], credProcessOpts)
	if err != nil {
		return err
	}

	analyticsClient.TrackRanCommand("cred-process", cacheResult(hit))

	// cached output is written back verbatim
	_, err = cmd.OutOrStdout().Write(output)
	return err
}
