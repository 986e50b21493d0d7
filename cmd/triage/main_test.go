package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "triage version "+strings.TrimSpace(triage.Version)+"\n", out)
}

func TestValidateCommand(t *testing.T) {
	t.Run("Built-in tree", func(t *testing.T) {
		out, _, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Tree is valid!")
		assert.Contains(t, out, "7 entry points")
	})

	t.Run("Broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		doc := `root: start
questions:
  - id: start
    text: Is it urgent?
    "yes": call
    "no": missing
diagnoses:
  - id: call
    text: Call now.
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, errOut, err := execute(t, "validate", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.Contains(t, errOut, "missing")
	})
}

func TestGraphCommand(t *testing.T) {
	out, _, err := execute(t, "graph", "--path", "no, NO")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "start -- yes --> q1_a")
	assert.Contains(t, out, "class q1_b visited;")
	assert.Contains(t, out, "class diag_unconscious_no_pulse current;")
}

func TestClassifyRequiresCredential(t *testing.T) {
	t.Setenv("TRIAGE_LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := execute(t, "classify", "chest pain")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSplitAnswers(t *testing.T) {
	assert.Equal(t, []string{"yes", "no"}, splitAnswers(" Yes ,,no,"))
	assert.Empty(t, splitAnswers(""))
}
