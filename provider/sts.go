package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	log "github.com/sirupsen/logrus"

	"github.com/segmentio/aws-mfa/internal/sessioncache"
)

// CredentialProvider exchanges a role ARN and a one-time MFA code for
// temporary credentials
type CredentialProvider interface {
	Fetch(ctx context.Context, roleARN string, mfaCode string) (*sessioncache.Record, error)
}

// ProviderError is returned for any failure to get credentials from STS
type ProviderError struct {
	RoleARN string
	Err     error
}

func (e *ProviderError) Error() string {
	if aerr, ok := e.Err.(awserr.Error); ok {
		return fmt.Sprintf("failed to assume %s: %s: %s", e.RoleARN, aerr.Code(), aerr.Message())
	}
	return fmt.Sprintf("failed to assume %s: %s", e.RoleARN, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// STSProvider assumes roles with sts:AssumeRole, authenticating the MFA
// device in Opts
type STSProvider struct {
	Client stsiface.STSAPI

	// Opts must have had ApplyDefaults and Validate called
	Opts AssumeRoleOptions
}

// NewSTSProvider calls STS in region with the credentials of the shared
// config profile
func NewSTSProvider(profile, region string, opts AssumeRoleOptions) (*STSProvider, error) {
	opts = opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Profile:           profile,
		SharedConfigState: session.SharedConfigEnable,
		Config: aws.Config{
			Region: aws.String(region),
		},
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	return &STSProvider{
		Client: sts.New(sess),
		Opts:   opts,
	}, nil
}

func (p *STSProvider) Fetch(ctx context.Context, roleARN string, mfaCode string) (*sessioncache.Record, error) {
	log.Debugf("assuming role %s with MFA device %s", roleARN, p.Opts.MFASerial)

	resp, err := p.Client.AssumeRoleWithContext(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(p.Opts.RoleSessionName),
		DurationSeconds: aws.Int64(int64(p.Opts.Duration.Seconds())),
		SerialNumber:    aws.String(p.Opts.MFASerial),
		TokenCode:       aws.String(mfaCode),
	})
	if err != nil {
		return nil, &ProviderError{RoleARN: roleARN, Err: err}
	}

	creds := resp.Credentials
	if creds == nil || creds.AccessKeyId == nil || creds.SecretAccessKey == nil ||
		creds.SessionToken == nil || creds.Expiration == nil {
		return nil, &ProviderError{RoleARN: roleARN, Err: ErrIncompleteCredentials}
	}

	log.Debugf("using role %s expires in %s",
		roleARN, time.Until(*creds.Expiration).Round(time.Second).String())

	return &sessioncache.Record{
		Version:         sessioncache.RecordVersion,
		AccessKeyID:     *creds.AccessKeyId,
		SecretAccessKey: *creds.SecretAccessKey,
		SessionToken:    *creds.SessionToken,
		Expiration:      creds.Expiration.UTC().Format(time.RFC3339),
	}, nil
}
