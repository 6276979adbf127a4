package mockbackend

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

var (
	ErrInvalidRegion = errors.New("invalid region")
	ErrMissingKeys   = errors.New("access key and secret key are required")
)

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov)?-[a-z]+-\d$`)

// CredentialChecker validates AWS settings before they are used.
type CredentialChecker interface {
	Check(ctx context.Context, s models.AWSSettings) error
}

// StaticChecker builds an SDK config from the submitted keys and makes sure
// the credentials resolve. It never calls AWS.
type StaticChecker struct{}

func (StaticChecker) Check(ctx context.Context, s models.AWSSettings) error {
	if !regionPattern.MatchString(s.Region) {
		return ErrInvalidRegion
	}
	if s.AccessKey == "" || s.SecretKey == "" {
		return ErrMissingKeys
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			s.AccessKey,
			s.SecretKey,
			"",
		))),
	)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}
	if !creds.HasKeys() {
		return ErrMissingKeys
	}
	return nil
}
