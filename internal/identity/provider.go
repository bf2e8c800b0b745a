// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity integrates with the external identity provider that
// mirrors Notely's user records. The provider is the source of truth for
// display names of provider-managed accounts; Notely propagates profile
// changes back to it best-effort. Provider failures are logged and never
// roll back local writes — the two stores are allowed to drift until the
// next webhook delivery reconciles them.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider is the outbound half of the identity integration. Implementations
// must tolerate repeated calls for the same user.
type Provider interface {
	// UpdateName pushes a changed display name, split into first/last parts.
	UpdateName(ctx context.Context, externalID, firstName, lastName string) error
	// DeleteUser requests provider-side deletion of the account.
	DeleteUser(ctx context.Context, externalID string) error
}

// SplitName divides a display name into the first/last components the
// provider's API expects. Everything after the first word is the last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// HTTPProvider talks to the provider's management API over HTTPS with a
// bearer key.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client for the given base URL and key.
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// UpdateName implements Provider.
func (p *HTTPProvider) UpdateName(ctx context.Context, externalID, firstName, lastName string) error {
	body, err := json.Marshal(map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
	})
	if err != nil {
		return fmt.Errorf("marshal name update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		p.baseURL+"/v1/users/"+externalID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build name update request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return p.do(req)
}

// DeleteUser implements Provider.
func (p *HTTPProvider) DeleteUser(ctx context.Context, externalID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		p.baseURL+"/v1/users/"+externalID, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	return p.do(req)
}

func (p *HTTPProvider) do(req *http.Request) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("identity provider responded %d", resp.StatusCode)
	}
	return nil
}

// Noop is used when no provider is configured; every call succeeds without
// doing anything.
type Noop struct{}

// UpdateName implements Provider.
func (Noop) UpdateName(context.Context, string, string, string) error { return nil }

// DeleteUser implements Provider.
func (Noop) DeleteUser(context.Context, string) error { return nil }
