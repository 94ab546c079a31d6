// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Secrets Manager JSON keys for the catalog consumer key pair
const (
	secretKeyConsumerKey    = "consumer_key"
	secretKeyConsumerSecret = "consumer_secret"
)

// SecretsLoader fetches the WooCommerce consumer key pair from AWS Secrets
// Manager. It is only consulted when AWS_WOO_SECRET_NAME is configured;
// otherwise the credentials come straight from the environment.
type SecretsLoader struct {
	client     *secretsmanager.Client
	secretName string
	logger     *slog.Logger
}

// NewSecretsLoader creates a Secrets Manager client for the given secret
func NewSecretsLoader(ctx context.Context, cfg AWSConfig, logger *slog.Logger) (*SecretsLoader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &SecretsLoader{
		client:     secretsmanager.NewFromConfig(awsCfg, clientOpts...),
		secretName: cfg.SecretName,
		logger:     logger,
	}, nil
}

// LoadWooCredentials fetches the consumer key pair and writes it into the
// given WooCommerce config, overriding any environment-sourced values.
func (sl *SecretsLoader) LoadWooCredentials(ctx context.Context, woo *WooCommerceConfig) error {
	sl.logger.InfoContext(ctx, "fetching catalog credentials from AWS Secrets Manager",
		slog.String("secret_name", sl.secretName))

	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sl.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := sl.client.GetSecretValue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secret %s has no string payload", sl.secretName)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	key, ok := secretData[secretKeyConsumerKey]
	if !ok || key == "" {
		return fmt.Errorf("secret %s is missing %s", sl.secretName, secretKeyConsumerKey)
	}
	secret, ok := secretData[secretKeyConsumerSecret]
	if !ok || secret == "" {
		return fmt.Errorf("secret %s is missing %s", sl.secretName, secretKeyConsumerSecret)
	}

	woo.ConsumerKey = key
	woo.ConsumerSecret = secret
	return nil
}
