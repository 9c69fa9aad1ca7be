package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var execOpts roleOptions

var execCmd = &cobra.Command{
	Use:   "exec <role-arn> -- <command>",
	Short: "exec will run the command specified with the role's credentials set in the environment",
	RunE:  execRun,
}

func init() {
	RootCmd.AddCommand(execCmd)
	addRoleFlags(execCmd, &execOpts)
}

func execRun(cmd *cobra.Command, args []string) error {
	dashIx := cmd.ArgsLenAtDash()
	if dashIx == -1 {
		return ErrCommandMissing
	}

	args, commandPart := args[:dashIx], args[dashIx:]
	if len(args) < 1 {
		return ErrTooFewArguments
	}
	if len(args) > 1 {
		return ErrTooManyArguments
	}

	if len(commandPart) == 0 {
		return ErrCommandMissing
	}

	if err := resolveRoleOptions(cmd, &execOpts); err != nil {
		return err
	}

	cache, err := openCache()
	if err != nil {
		return err
	}

	output, hit, err := retrieve(cmd.Context(), cache, args[0], execOpts)
	if err != nil {
		return err
	}

	analyticsClient.TrackRanCommand("exec", cacheResult(hit))

	env, err := credentialsEnv(output, execOpts.Region)
	if err != nil {
		return err
	}

	environ := kvEnv{}
	environ.LoadFromEnviron(os.Environ()...)
	environ.Add(env)

	log.Debugf("Running command `%s` with AWS env vars set", strings.Join(commandPart, " "))
	return runWithEnv(commandPart[0], environ.Environ(), commandPart[1:]...)
}

func runWithEnv(name string, env []string, arg ...string) error {
	binary, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("Error finding `%s`. Is it installed and in your PATH? %s", name, err)
	}

	c := exec.Command(binary, arg...)
	c.Env = env
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := c.Start(); err != nil {
		return err
	}

	go func() {
		for sig := range sigs {
			if c.Process != nil {
				c.Process.Signal(sig)
			}
		}
	}()

	return c.Wait()
}
