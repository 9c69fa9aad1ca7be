package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/segmentio/aws-mfa/cmd/internal/analytics"
)

// Errors returned from frontend commands
var (
	ErrCommandMissing   = errors.New("must specify command to run")
	ErrTooManyArguments = errors.New("too many arguments")
	ErrTooFewArguments  = errors.New("too few arguments")
)

const envPrefix = "AWS_MFA"

// global flags
var (
	backend  string
	cacheDir string
	debug    bool
	version  string

	analyticsWriteKey string
	analyticsClient   analytics.Client
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:               "aws-mfa",
	Short:             "aws-mfa caches MFA-authenticated role credentials for the AWS CLI",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prerun,
	PersistentPostRun: postrun,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(vers string, writeKey string) {
	version = vers
	analyticsWriteKey = writeKey

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		switch err {
		case ErrTooFewArguments, ErrTooManyArguments, ErrCommandMissing:
			RootCmd.Usage()
		}
		os.Exit(1)
	}
}

func prerun(cmd *cobra.Command, args []string) error {
	debug = viper.GetBool("debug")
	cacheDir = viper.GetString("cache-dir")
	backend = viper.GetString("backend")

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if analyticsWriteKey != "" && !viper.GetBool("disable-analytics") {
		analyticsClient = analytics.New(analyticsWriteKey)
		analyticsClient.Version = version
		analyticsClient.Backend = backend
		if usr, err := user.Current(); err == nil {
			analyticsClient.UserId = usr.Username
		}
		analyticsClient.Identify()
	}

	return nil
}

func postrun(cmd *cobra.Command, args []string) {
	analyticsClient.Close()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", backendDir,
		fmt.Sprintf("Cache backend to use: %s, %s or %s:<type> with type one of %v",
			backendDir, backendKeyring, backendKeyring, availableKeyringBackends()))
	RootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", defaultCacheDir, "Directory holding cached credentials (dir backend)")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"backend", "cache-dir", "debug"} {
		if err := viper.BindPFlag(name, RootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Panicf("Failed to bind flag %s: %v", name, err)
		}
	}
}
