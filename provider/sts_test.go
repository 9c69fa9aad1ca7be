package provider

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/segmentio/aws-mfa/internal/sessioncache"
)

type fakeSTS struct {
	stsiface.STSAPI

	input *sts.AssumeRoleInput
	resp  *sts.AssumeRoleOutput
	err   error
}

func (f *fakeSTS) AssumeRoleWithContext(ctx aws.Context, in *sts.AssumeRoleInput, opts ...request.Option) (*sts.AssumeRoleOutput, error) {
	f.input = in
	return f.resp, f.err
}

func validOpts() AssumeRoleOptions {
	return AssumeRoleOptions{MFASerial: "arn:aws:iam::123:mfa/me"}.ApplyDefaults()
}

func TestSTSProviderFetch(t *testing.T) {
	const roleARN = "arn:aws:iam::123:role/X"
	expires := time.Date(2099, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("success", func(t *testing.T) {
		client := &fakeSTS{resp: &sts.AssumeRoleOutput{
			Credentials: &sts.Credentials{
				AccessKeyId:     aws.String("AKIAEXAMPLE"),
				SecretAccessKey: aws.String("s"),
				SessionToken:    aws.String("t"),
				Expiration:      aws.Time(expires),
			},
		}}
		p := &STSProvider{Client: client, Opts: validOpts()}

		rec, err := p.Fetch(context.Background(), roleARN, "123456")
		require.NoError(t, err)
		assert.Equal(t, &sessioncache.Record{
			Version:         1,
			AccessKeyID:     "AKIAEXAMPLE",
			SecretAccessKey: "s",
			SessionToken:    "t",
			Expiration:      "2099-01-01T00:00:00Z",
		}, rec)

		assert.Equal(t, roleARN, aws.StringValue(client.input.RoleArn))
		assert.Equal(t, "arn:aws:iam::123:mfa/me", aws.StringValue(client.input.SerialNumber))
		assert.Equal(t, "123456", aws.StringValue(client.input.TokenCode))
		assert.Equal(t, DefaultRoleSessionName, aws.StringValue(client.input.RoleSessionName))
		assert.Equal(t, int64(3600), aws.Int64Value(client.input.DurationSeconds))
	})

	t.Run("STS error", func(t *testing.T) {
		aerr := awserr.New("AccessDenied", "MultiFactorAuthentication failed with invalid MFA one time pass code", nil)
		p := &STSProvider{Client: &fakeSTS{err: aerr}, Opts: validOpts()}

		_, err := p.Fetch(context.Background(), roleARN, "000000")
		var perr *ProviderError
		require.True(t, xerrors.As(err, &perr))
		assert.Equal(t, roleARN, perr.RoleARN)
		assert.Contains(t, err.Error(), "AccessDenied")
		assert.Equal(t, aerr, perr.Unwrap())
	})

	t.Run("incomplete credentials", func(t *testing.T) {
		client := &fakeSTS{resp: &sts.AssumeRoleOutput{
			Credentials: &sts.Credentials{AccessKeyId: aws.String("AKIAEXAMPLE")},
		}}
		p := &STSProvider{Client: client, Opts: validOpts()}

		_, err := p.Fetch(context.Background(), roleARN, "123456")
		assert.True(t, xerrors.Is(err, ErrIncompleteCredentials))
	})
}

func TestAssumeRoleOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o := AssumeRoleOptions{MFASerial: "x"}.ApplyDefaults()
		assert.Equal(t, DefaultAssumeRoleDuration, o.Duration)
		assert.Equal(t, DefaultRoleSessionName, o.RoleSessionName)
		assert.NoError(t, o.Validate())
	})

	for name, o := range map[string]AssumeRoleOptions{
		"missing serial": {Duration: time.Hour},
		"too short":      {MFASerial: "x", Duration: time.Minute},
		"too long":       {MFASerial: "x", Duration: 5 * time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, xerrors.Is(o.Validate(), ErrInvalidOptions))
		})
	}
}
