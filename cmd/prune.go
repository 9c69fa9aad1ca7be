package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/segmentio/aws-mfa/internal/sessioncache"
)

var pruneCmd = &cobra.Command{
	Use:   "prune <role-arn>...",
	Short: "prune deletes the expired and superseded cached credentials of the specified roles",
	RunE:  pruneRun,
}

func init() {
	RootCmd.AddCommand(pruneCmd)
}

func pruneRun(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return ErrTooFewArguments
	}

	cache, err := openCache()
	if err != nil {
		return err
	}

	analyticsClient.TrackRanCommand("prune")

	return prune(cmd.OutOrStdout(), cache, args)
}

func prune(w io.Writer, cache *sessioncache.Cache, roleARNs []string) error {
	for _, roleARN := range roleARNs {
		active, err := cache.Sweep(sessioncache.RoleKey{RoleARN: roleARN})
		if err != nil {
			return err
		}
		if active == nil {
			fmt.Fprintf(w, "%s: no cached credentials\n", roleARN)
			continue
		}
		fmt.Fprintf(w, "%s: cached until %s\n", roleARN, active.Expiration.UTC().Format(time.RFC3339))
	}
	return nil
}
