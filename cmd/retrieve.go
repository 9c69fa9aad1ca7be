package cmd

import (
	"context"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/segmentio/aws-mfa/cmd/internal/analytics"
	"github.com/segmentio/aws-mfa/internal/sessioncache"
	"github.com/segmentio/aws-mfa/profiles"
	"github.com/segmentio/aws-mfa/provider"
)

// fetchTimeout bounds the STS call, not the MFA prompt
const fetchTimeout = 30 * time.Second

// roleOptions is everything needed to assume a role on a cache miss
type roleOptions struct {
	MFASerial       string
	Profile         string
	Region          string
	RoleSessionName string
	DurationSeconds int64
}

func (o roleOptions) assumeRoleOptions() provider.AssumeRoleOptions {
	return provider.AssumeRoleOptions{
		MFASerial:       o.MFASerial,
		RoleSessionName: o.RoleSessionName,
		Duration:        time.Duration(o.DurationSeconds) * time.Second,
	}.ApplyDefaults()
}

func addRoleFlags(cmd *cobra.Command, o *roleOptions) {
	cmd.Flags().StringVar(&o.MFASerial, "mfa-serial", "", "ARN of the MFA device (default: mfa_serial of the profile)")
	cmd.Flags().StringVar(&o.Profile, "profile", os.Getenv("AWS_PROFILE"), "Profile whose credentials assume the role")
	cmd.Flags().StringVar(&o.Region, "region", provider.DefaultRegion, "Regional STS endpoint to call")
	cmd.Flags().StringVar(&o.RoleSessionName, "role-session-name", provider.DefaultRoleSessionName, "Role session name")
	cmd.Flags().Int64Var(&o.DurationSeconds, "duration-seconds", int64(provider.DefaultAssumeRoleDuration.Seconds()), "Role session duration in seconds")
}

// resolveRoleOptions fills the flags that weren't given from the profile's
// section of the AWS config file
func resolveRoleOptions(cmd *cobra.Command, o *roleOptions) error {
	file, err := profiles.ConfigFile()
	if err != nil {
		return err
	}
	config, err := profiles.Load(file)
	if err != nil {
		return err
	}

	name := o.Profile
	if name == "" {
		name = "default"
	}

	fill := func(flagName, key string, val *string) {
		if cmd.Flags().Lookup(flagName).Changed {
			return
		}
		if v, from, err := config.GetValue(name, key); err == nil {
			log.Debugf("using %s = %s from profile %s", key, v, from)
			*val = v
		}
	}
	fill("mfa-serial", profiles.KeyMFASerial, &o.MFASerial)
	fill("region", profiles.KeyRegion, &o.Region)
	fill("role-session-name", profiles.KeyRoleSessionName, &o.RoleSessionName)

	var duration string
	fill("duration-seconds", profiles.KeyDurationSeconds, &duration)
	if duration != "" {
		secs, err := strconv.ParseInt(duration, 10, 64)
		if err != nil {
			log.Warnf("could not parse %s = %q from profile config", profiles.KeyDurationSeconds, duration)
		} else {
			o.DurationSeconds = secs
		}
	}

	return o.assumeRoleOptions().Validate()
}

// overridden in tests
var (
	newCredentialProvider = func(o roleOptions) (provider.CredentialProvider, error) {
		return provider.NewSTSProvider(o.Profile, o.Region, o.assumeRoleOptions())
	}
	promptMFACode = func(serial string) (string, error) {
		if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
			in, out := provider.PromptIn, provider.PromptOut
			defer func() {
				provider.PromptIn, provider.PromptOut = in, out
				tty.Close()
			}()
			provider.PromptIn, provider.PromptOut = tty, tty
		}
		return provider.MFACode(serial)
	}
)

// retrieve returns the credential_process output for roleARN, from the cache
// when possible. Otherwise the role is assumed and the output cached.
func retrieve(ctx context.Context, cache *sessioncache.Cache, roleARN string, o roleOptions) (output []byte, hit bool, err error) {
	key := sessioncache.RoleKey{RoleARN: roleARN}

	output, err = cache.Lookup(key)
	if err == nil {
		return output, true, nil
	}
	if !xerrors.Is(err, sessioncache.ErrCacheMiss) {
		log.Warnf("failed to read cached credentials: %s", err)
	}

	p, err := newCredentialProvider(o)
	if err != nil {
		return nil, false, err
	}

	code, err := promptMFACode(o.MFASerial)
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	rec, err := p.Fetch(ctx, roleARN, code)
	if err != nil {
		return nil, false, err
	}

	output, err = cache.Store(key, rec)
	if xerrors.Is(err, sessioncache.ErrInvalidRecord) {
		return nil, false, err
	} else if err != nil {
		log.Warnf("failed to cache credentials: %s", err)
		if output, err = rec.Bytes(); err != nil {
			return nil, false, xerrors.Errorf("failed to marshal credential process output: %w", err)
		}
	}

	return output, false, nil
}

func cacheResult(hit bool) [2]string {
	if hit {
		return [2]string{analytics.PropertyCacheResult, analytics.CacheHit}
	}
	return [2]string{analytics.PropertyCacheResult, analytics.CacheMiss}
}
