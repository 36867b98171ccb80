// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/magiconair/properties"
	"github.com/pierrec/lz4/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// maxDecompressedSize bounds the expansion of a compressed document.
const maxDecompressedSize = 64 << 20

// DecodeDocument parses a property document. name selects the format
// by extension (after stripping a compression suffix); data is the raw
// document. Nested YAML and JSON maps flatten to dotted keys and lists
// to comma-joined values.
func DecodeDocument(name string, data []byte) (map[string]string, error) {
	name, data, err := decompress(name, data)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".json", ".jsonc":
		return decodeJSON(data)
	default:
		return decodeProperties(data)
	}
}

func decompress(name string, data []byte) (string, []byte, error) {
	extension := strings.ToLower(path.Ext(name))
	var reader io.Reader
	switch extension {
	case ".gz":
		gzipReader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	case ".zst":
		decoder, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	case ".lz4":
		reader = lz4.NewReader(bytes.NewReader(data))
	default:
		return name, data, nil
	}

	decoded, err := io.ReadAll(io.LimitReader(reader, maxDecompressedSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("decompressing %s: %w", extension, err)
	}
	if len(decoded) > maxDecompressedSize {
		return "", nil, fmt.Errorf("decompressing %s: document exceeds %d bytes", extension, maxDecompressedSize)
	}
	return strings.TrimSuffix(name, path.Ext(name)), decoded, nil
}

func decodeProperties(data []byte) (map[string]string, error) {
	// ${...} in values is expanded later and only for location bases;
	// here values are taken literally.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	parsed, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing properties: %w", err)
	}
	return parsed.Map(), nil
}

func decodeYAML(data []byte) (map[string]string, error) {
	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	values := make(map[string]string)
	for key, value := range document {
		flatten(key, value, values)
	}
	return values, nil
}

func decodeJSON(data []byte) (map[string]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	var document map[string]any
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	values := make(map[string]string)
	for key, value := range document {
		flatten(key, value, values)
	}
	return values, nil
}

func flatten(prefix string, value any, values map[string]string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, child := range typed {
			flatten(prefix+"."+key, child, values)
		}
	case map[any]any:
		for key, child := range typed {
			flatten(prefix+"."+fmt.Sprint(key), child, values)
		}
	case []any:
		parts := make([]string, 0, len(typed))
		for _, element := range typed {
			parts = append(parts, scalar(element))
		}
		values[prefix] = strings.Join(parts, ",")
	default:
		values[prefix] = scalar(typed)
	}
}

func scalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}
