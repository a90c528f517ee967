package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// ErrNotFound is returned when neither the secret nor a fallback value exists.
var ErrNotFound = errors.New("secret not found")

// API is the part of the Secrets Manager client used here.
type API interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Client reads string secrets from AWS Secrets Manager.
type Client struct {
	api API
	log *zap.Logger
}

// New wraps an existing API implementation.
func New(api API, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{api: api, log: log}
}

// NewFromDefaultConfig uses the default AWS credential chain
// (environment, shared config, IAM role).
func NewFromDefaultConfig(ctx context.Context, log *zap.Logger) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return New(secretsmanager.NewFromConfig(cfg), log), nil
}

// Get returns the secret stored under arn. A JSON object with exactly one key
// is unwrapped to that key's value; anything else is returned verbatim.
// When arn is empty or the lookup fails, fallback is used if non-empty.
func (c *Client) Get(ctx context.Context, arn, fallback string) (string, error) {
	if arn == "" {
		if fallback != "" {
			return fallback, nil
		}
		return "", ErrNotFound
	}

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(arn)})
	if err == nil && out.SecretString != nil && strings.TrimSpace(*out.SecretString) != "" {
		return unwrap(*out.SecretString), nil
	}
	if err == nil {
		err = errors.New("empty secret string")
	}
	if fallback != "" {
		c.log.Warn("secrets manager lookup failed, using fallback value", zap.String("secret_arn", arn), zap.Error(err))
		return fallback, nil
	}
	return "", fmt.Errorf("get secret %s: %w", arn, errors.Join(ErrNotFound, err))
}

func unwrap(s string) string {
	var kv map[string]string
	if err := json.Unmarshal([]byte(s), &kv); err == nil && len(kv) == 1 {
		for _, v := range kv {
			return v
		}
	}
	return s
}
