// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/kestrel-gateway/kestrel/lib/netutil"
)

// ErrSourceUnavailable is wrapped by every warning Load returns for a
// skipped source.
var ErrSourceUnavailable = errors.New("configuration source unavailable")

// Source contributes properties to a snapshot. Apply writes into
// properties, overriding existing keys. A source that returns an error
// is skipped and its writes are discarded.
type Source interface {
	Name() string
	Apply(ctx context.Context, properties map[string]string) error
}

// Load merges sources in order into a new snapshot. Failing sources
// are skipped and reported in warnings; Load itself never fails.
func Load(ctx context.Context, logger *slog.Logger, sources ...Source) (*Snapshot, []error) {
	if logger == nil {
		logger = slog.Default()
	}
	properties := make(map[string]string)
	var warnings []error
	for _, source := range sources {
		staged := maps.Clone(properties)
		if err := source.Apply(ctx, staged); err != nil {
			logger.Warn("skipping configuration source", "source", source.Name(), "error", err)
			warnings = append(warnings, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source.Name(), err))
			continue
		}
		properties = staged
	}
	return NewSnapshot(properties), warnings
}

// SourceOptions configures StandardSources.
type SourceOptions struct {
	// HTTPClient fetches http(s) documents. Nil uses http.DefaultClient.
	HTTPClient *http.Client

	// MarkerPath overrides DefaultMarkerPath.
	MarkerPath string
}

// StandardSources returns the fixed five-step source order over the
// given system properties.
func StandardSources(system map[string]string, options SourceOptions) []Source {
	markerPath := options.MarkerPath
	if markerPath == "" {
		markerPath = DefaultMarkerPath
	}
	return []Source{
		URLSource(KeyConfiguration, system, options.HTTPClient),
		URLSource(KeyCustomConfiguration, system, options.HTTPClient),
		SystemSource(system),
		MarkerSource(markerPath, KeyOSName, CloudbeesOSName),
		DefaultsSource(),
	}
}

// SystemProperties builds the system property set: every environment
// entry verbatim, KESTREL_* entries again as kestrel.* keys, then
// defines on top.
func SystemProperties(environ []string, defines map[string]string) map[string]string {
	system := make(map[string]string, len(environ)+len(defines))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if ok && key != "" {
			system[key] = value
		}
	}
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, environmentPrefix) || len(key) == len(environmentPrefix) {
			continue
		}
		translated := "kestrel." + strings.ToLower(strings.ReplaceAll(key[len(environmentPrefix):], "_", "."))
		system[translated] = value
	}
	maps.Copy(system, defines)
	return system
}

type urlSource struct {
	key    string
	system map[string]string
	client *http.Client
}

// URLSource loads the document whose location is the value of
// locationKey in system. An unset location contributes nothing.
func URLSource(locationKey string, system map[string]string, client *http.Client) Source {
	return &urlSource{key: locationKey, system: system, client: client}
}

func (s *urlSource) Name() string { return s.key }

func (s *urlSource) Apply(ctx context.Context, properties map[string]string) error {
	location := strings.TrimSpace(s.system[s.key])
	if location == "" {
		return nil
	}
	name, data, err := fetch(ctx, s.client, location)
	if err != nil {
		return err
	}
	values, err := DecodeDocument(name, data)
	if err != nil {
		return fmt.Errorf("%s: %w", location, err)
	}
	maps.Copy(properties, values)
	return nil
}

// fetch returns the document at location and the path component used
// to pick its format.
func fetch(ctx context.Context, client *http.Client, location string) (string, []byte, error) {
	parsed, err := url.Parse(location)
	if err != nil || parsed.Scheme == "" {
		data, err := os.ReadFile(location)
		return location, data, err
	}
	switch parsed.Scheme {
	case "file":
		data, err := os.ReadFile(parsed.Path)
		return parsed.Path, data, err
	case "http", "https":
		data, err := netutil.Get(ctx, client, location)
		return parsed.Path, data, err
	default:
		return "", nil, fmt.Errorf("%s: unsupported scheme %q", location, parsed.Scheme)
	}
}

type systemSource struct {
	system map[string]string
}

// SystemSource copies system properties, as built by SystemProperties.
func SystemSource(system map[string]string) Source {
	return &systemSource{system: system}
}

func (s *systemSource) Name() string { return "system" }

func (s *systemSource) Apply(_ context.Context, properties map[string]string) error {
	maps.Copy(properties, s.system)
	return nil
}

type markerSource struct {
	path  string
	key   string
	value string
}

// MarkerSource sets key to value when a file exists at path.
func MarkerSource(path, key, value string) Source {
	return &markerSource{path: path, key: key, value: value}
}

func (s *markerSource) Name() string { return "marker:" + s.path }

func (s *markerSource) Apply(_ context.Context, properties map[string]string) error {
	_, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	properties[s.key] = s.value
	return nil
}

type defaultsSource struct{}

// DefaultsSource fills the capability flags and version when unset and
// normalizes set flags to "true" or "false".
func DefaultsSource() Source {
	return defaultsSource{}
}

func (defaultsSource) Name() string { return "defaults" }

func (defaultsSource) Apply(_ context.Context, properties map[string]string) error {
	for key, fallback := range map[string]string{
		KeyHaveNetAdmin:     DefaultHaveNetAdmin,
		KeyHaveWebInterface: DefaultHaveWebInterface,
	} {
		value, ok := properties[key]
		if !ok {
			properties[key] = fallback
			continue
		}
		properties[key] = NormalizeBool(value)
	}
	if _, ok := properties[KeyVersion]; !ok {
		properties[KeyVersion] = DefaultVersion
	}
	return nil
}

// NormalizeBool maps "true" in any case (surrounding space ignored) to
// "true" and everything else to "false".
func NormalizeBool(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), "true") {
		return "true"
	}
	return "false"
}
