package services

import (
	"context"
	"strings"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

const CredentialSlot = "VEO_API_KEY"

type credentialResolver struct {
	logger     outbound.LoggerPort
	store      outbound.KeyValueStorePort
	defaultKey string
}

// NewCredentialResolver prefers a key saved by the user over the process default.
func NewCredentialResolver(logger outbound.LoggerPort, store outbound.KeyValueStorePort, defaultKey string) inbound.CredentialPort {
	return &credentialResolver{
		logger:     logger,
		store:      store,
		defaultKey: strings.TrimSpace(defaultKey),
	}
}

func (c *credentialResolver) Resolve(ctx context.Context) (string, error) {
	if key := c.override(ctx); key != "" {
		return key, nil
	}
	if c.defaultKey != "" {
		return c.defaultKey, nil
	}
	return "", domain.ErrMissingCredential
}

func (c *credentialResolver) Save(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return c.Clear(ctx)
	}
	if err := c.store.Set(ctx, CredentialSlot, key); err != nil {
		c.logger.Error(err, "Failed to save the API key")
		return err
	}
	return nil
}

func (c *credentialResolver) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, CredentialSlot); err != nil {
		c.logger.Error(err, "Failed to remove the API key")
		return err
	}
	return nil
}

func (c *credentialResolver) Status(ctx context.Context) (inbound.CredentialStatus, error) {
	value, ok, err := c.store.Get(ctx, CredentialSlot)
	if err != nil {
		return inbound.CredentialStatus{}, err
	}
	return inbound.CredentialStatus{
		HasOverride: ok && strings.TrimSpace(value) != "",
		HasDefault:  c.defaultKey != "",
	}, nil
}

func (c *credentialResolver) override(ctx context.Context) string {
	value, ok, err := c.store.Get(ctx, CredentialSlot)
	if err != nil {
		c.logger.Warn("Failed to read the saved API key, falling back to the default")
		return ""
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
