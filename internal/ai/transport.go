// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// defaultMaxTokens is the output budget requested from every provider.
const defaultMaxTokens = 8000

// errEmptyBody marks a 2xx response with nothing in it.
var errEmptyBody = errors.New("empty or whitespace-only response body")

// postJSON marshals payload, POSTs it to url and returns the response body.
// Transport failures are returned wrapped; a non-2xx status or a blank body
// becomes an *UpstreamError. No retry is attempted.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s marshal: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http: %w", provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if strings.TrimSpace(string(respBody)) == "" {
		return nil, &UpstreamError{Provider: provider, StatusCode: resp.StatusCode, Err: errEmptyBody}
	}
	return respBody, nil
}

// decodeEnvelope unmarshals a provider envelope, reporting failures as
// *UpstreamError with the offending body attached.
func decodeEnvelope(provider string, body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return &UpstreamError{
			Provider:   provider,
			StatusCode: http.StatusOK,
			Body:       string(body),
			Err:        fmt.Errorf("invalid envelope JSON: unmarshal: %w", err),
		}
	}
	return nil
}

// requireContent rejects blank assistant content.
func requireContent(provider, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrEmptyContent)
	}
	return content, nil
}
