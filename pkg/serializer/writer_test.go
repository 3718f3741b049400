// Copyright (c) 2025, the kubeops authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testResult struct {
	Pod       string `json:"pod" yaml:"pod"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Trials    int    `json:"trials" yaml:"trials"`
}

func TestWriterSerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	in := testResult{Pod: "web-1", Namespace: "ops", Trials: 3}
	require.NoError(t, w.Serialize(context.Background(), in))

	var out testResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}

func TestWriterSerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	in := testResult{Pod: "web-1", Namespace: "ops", Trials: 3}
	require.NoError(t, w.Serialize(context.Background(), in))

	var out testResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}

func TestWriterSerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	in := testResult{Pod: "web-1", Namespace: "ops", Trials: 3}
	require.NoError(t, w.Serialize(context.Background(), in))

	out := buf.String()
	assert.Contains(t, out, "Field")
	assert.Contains(t, out, "Value")
	assert.Contains(t, out, "Pod")
	assert.Contains(t, out, "web-1")
}

func TestWriterTableFlattensNestedValues(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	in := map[string]any{
		"outcome": map[string]any{"kind": "ready"},
		"pods":    []string{"web-1", "web-2"},
	}
	require.NoError(t, w.Serialize(context.Background(), in))

	out := buf.String()
	assert.Contains(t, out, "outcome.kind")
	assert.Contains(t, out, "pods.[1]")
}

func TestWriterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(context.Background(), struct{}{}))
	assert.Contains(t, buf.String(), "<empty>")
}

func TestWriterUnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)

	require.NoError(t, w.Serialize(context.Background(), testResult{Pod: "web-1"}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		w := NewFileWriterOrStdout(FormatJSON, path)

		require.NoError(t, w.Serialize(context.Background(), testResult{Pod: "web-1"}))
		require.NoError(t, w.Close())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "web-1")
	})

	t.Run("empty path falls back to stdout", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, "  ")
		assert.NoError(t, w.Close())
	})
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, formats)
	for _, f := range formats {
		assert.False(t, Format(f).IsUnknown())
	}
}
