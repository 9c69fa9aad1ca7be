package provider

import (
	"errors"
	"time"

	"golang.org/x/xerrors"
)

const (
	MinAssumeRoleDuration = time.Minute * 15
	MaxAssumeRoleDuration = time.Hour * 4

	DefaultAssumeRoleDuration = time.Hour
	DefaultRoleSessionName    = "aws-mfa"
	DefaultRegion             = "us-east-1"
)

var (
	ErrInvalidOptions        = errors.New("invalid assume role options")
	ErrIncompleteCredentials = errors.New("STS returned incomplete credentials")
)

type AssumeRoleOptions struct {
	// MFASerial is the ARN (or serial number) of the MFA device
	MFASerial       string
	RoleSessionName string
	Duration        time.Duration
}

func (o AssumeRoleOptions) Validate() error {
	if o.MFASerial == "" {
		return xerrors.Errorf("MFA serial is required: %w", ErrInvalidOptions)
	}
	if o.Duration < MinAssumeRoleDuration {
		return xerrors.Errorf("minimum duration for assumed roles is %s: %w", MinAssumeRoleDuration, ErrInvalidOptions)
	} else if o.Duration > MaxAssumeRoleDuration {
		return xerrors.Errorf("maximum duration for assumed roles is %s: %w", MaxAssumeRoleDuration, ErrInvalidOptions)
	}
	return nil
}

func (o AssumeRoleOptions) ApplyDefaults() AssumeRoleOptions {
	if o.Duration == 0 {
		o.Duration = DefaultAssumeRoleDuration
	}
	if o.RoleSessionName == "" {
		o.RoleSessionName = DefaultRoleSessionName
	}
	return o
}
