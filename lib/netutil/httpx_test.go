// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(strings.NewReader("kestrel.home=/opt/kestrel\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "kestrel.home=/opt/kestrel\n" {
			t.Fatalf("got %q", data)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		_, err := ReadResponse(io.LimitReader(zeroReader{}, MaxResponseSize+1))
		if !errors.Is(err, ErrResponseTooLarge) {
			t.Fatalf("err = %v, want ErrResponseTooLarge", err)
		}
	})

	t.Run("exactly at limit accepted", func(t *testing.T) {
		data, err := ReadResponse(io.LimitReader(zeroReader{}, MaxResponseSize))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if int64(len(data)) != MaxResponseSize {
			t.Fatalf("len = %d, want %d", len(data), MaxResponseSize)
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		if _, err := ReadResponse(&failReader{}); err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/kestrel.properties":
			fmt.Fprint(w, "x=1\n")
		default:
			http.Error(w, "no such document", http.StatusNotFound)
		}
	}))
	defer server.Close()

	data, err := Get(context.Background(), server.Client(), server.URL+"/kestrel.properties")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "x=1\n" {
		t.Errorf("body = %q, want %q", data, "x=1\n")
	}

	_, err = Get(context.Background(), server.Client(), server.URL+"/missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "no such document") {
		t.Errorf("error %q does not carry the response body", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

type failReader struct{}

func (f *failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}
