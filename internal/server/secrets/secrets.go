// Package secrets resolves upstream credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/karmaboard/internal/common"
	"github.com/dmitrijs2005/karmaboard/internal/server/config"
)

// Getter is the slice of the Secrets Manager API we use.
type Getter interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Credentials is the JSON document stored in the secret.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewClient builds a Secrets Manager client for region using the default
// credential chain.
func NewClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// Fetch reads and decodes the secret.
func Fetch(ctx context.Context, client Getter, secretID string) (Credentials, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)})
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: secret %s: %w", common.ErrConfig, secretID, err)
	}
	if out.SecretString == nil {
		return Credentials{}, fmt.Errorf("%w: secret %s has no string value", common.ErrConfig, secretID)
	}

	var c Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &c); err != nil {
		return Credentials{}, fmt.Errorf("%w: secret %s: %v", common.ErrConfig, secretID, err)
	}
	return c, nil
}

// Apply fills upstream credentials that are still empty in cfg from the
// configured secret. Values already set by file, env or flags win. It is a
// no-op without credentials_secret_id.
func Apply(ctx context.Context, cfg *config.Config, client Getter) error {
	if cfg.CredentialsSecretID == "" {
		return nil
	}
	if cfg.MulearnUser != "" && cfg.MulearnPassword != "" {
		return nil
	}
	if client == nil {
		return errors.New("secrets: nil client")
	}

	c, err := Fetch(ctx, client, cfg.CredentialsSecretID)
	if err != nil {
		return err
	}
	if cfg.MulearnUser == "" {
		cfg.MulearnUser = c.Username
	}
	if cfg.MulearnPassword == "" {
		cfg.MulearnPassword = c.Password
	}
	return nil
}
