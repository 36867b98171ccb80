// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP reads for Kestrel.
//
// Remote configuration sources are fetched over plain HTTP(S) from
// provisioning servers the gateway does not control. Every body read
// is capped at MaxResponseSize so a misbehaving server cannot exhaust
// memory on a small device.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxResponseSize bounds body reads: 16 MiB. Property documents are
// orders of magnitude smaller.
const MaxResponseSize int64 = 16 << 20

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// ReadResponse reads a body up to MaxResponseSize bytes. A body that
// is longer than the limit is an error rather than silently truncated,
// since a truncated property document would parse into a partial
// configuration.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}

// ErrorBody reads an HTTP error response body for diagnostics. Read
// errors are ignored; a partial body is still useful in a message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return strings.TrimSpace(string(data))
}

// Get fetches url with client (http.DefaultClient when nil) and
// returns the bounded body. Any status other than 200 is an error.
func Get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s: %s", url, response.Status, ErrorBody(response.Body))
	}
	data, err := ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}
