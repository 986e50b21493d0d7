// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/triage"
	"github.com/stretchr/testify/require"
)

// UrgencyTree is a minimal valid tree document with one question.
const UrgencyTree = `root: start
questions:
  - id: start
    text: Is it urgent?
    "yes": call
    "no": wait
diagnoses:
  - id: call
    text: Call now.
  - id: wait
    text: Wait and see.
entries: []
`

// FixedClassifier resolves every description to the same node id.
type FixedClassifier string

// ClassifyEntryPoint returns f.
func (f FixedClassifier) ClassifyEntryPoint(context.Context, string) string { return string(f) }

// NewAssistant builds an Assistant and fails the test immediately on error.
func NewAssistant(t *testing.T, opts ...triage.Option) *triage.Assistant {
	t.Helper()
	a, err := triage.New(opts...)
	require.NoError(t, err, "Failed to create assistant")
	return a
}

// WriteTree writes doc to a temporary YAML file and returns its path.
func WriteTree(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644), "Failed to write tree file")
	return path
}
