package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"

	"github.com/segmentio/aws-mfa/internal/sessioncache"
)

var envOpts roleOptions

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:     "env <role-arn>",
	Short:   "env prints out export commands for the credentials of the specified role",
	RunE:    envRun,
	Example: "eval $(aws-mfa env --profile base arn:aws:iam::123456789012:role/admin)",
}

func init() {
	RootCmd.AddCommand(envCmd)
	addRoleFlags(envCmd, &envOpts)
}

func printExport(w io.Writer, fish bool, varName, varValue string) {
	exportString := "export %s=%s\n"
	if fish {
		exportString = "set -x %s %s\n"
	}
	fmt.Fprintf(w, exportString, varName, shellescape.Quote(varValue))
}

// credentialsEnv lists the variables the AWS SDKs read credentials from
func credentialsEnv(output []byte, region string) ([][2]string, error) {
	var rec sessioncache.Record
	if err := json.Unmarshal(output, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse credential process output: %s", err)
	}

	env := [][2]string{
		{"AWS_ACCESS_KEY_ID", rec.AccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", rec.SecretAccessKey},
	}
	if rec.SessionToken != "" {
		env = append(env,
			[2]string{"AWS_SESSION_TOKEN", rec.SessionToken},
			[2]string{"AWS_SECURITY_TOKEN", rec.SessionToken})
	}
	if rec.Expiration != "" {
		env = append(env, [2]string{"AWS_CREDENTIAL_EXPIRATION", rec.Expiration})
	}
	if region != "" {
		env = append(env,
			[2]string{"AWS_DEFAULT_REGION", region},
			[2]string{"AWS_REGION", region})
	}
	return env, nil
}

func envRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return ErrTooFewArguments
	}
	if len(args) > 1 {
		return ErrTooManyArguments
	}

	if err := resolveRoleOptions(cmd, &envOpts); err != nil {
		return err
	}

	cache, err := openCache()
	if err != nil {
		return err
	}

	output, hit, err := retrieve(cmd.Context(), cache, args[0], envOpts)
	if err != nil {
		return err
	}

	analyticsClient.TrackRanCommand("env", cacheResult(hit))

	env, err := credentialsEnv(output, envOpts.Region)
	if err != nil {
		return err
	}

	myShell, hasShell := os.LookupEnv("SHELL")
	fish := hasShell && strings.Contains(myShell, "fish")
	for _, kv := range env {
		printExport(cmd.OutOrStdout(), fish, kv[0], kv[1])
	}

	return nil
}
