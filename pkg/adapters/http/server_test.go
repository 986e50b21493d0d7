package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/aretw0/triage/pkg/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, responses []llm.MockResponse, opts ...Option) http.Handler {
	t.Helper()
	tr, err := catalog.FirstAid()
	require.NoError(t, err)

	provider := llm.NewMockProvider(responses...)
	a, err := triage.New(
		triage.WithTree(tr),
		triage.WithClassifier(classifier.New(provider, tr)),
	)
	require.NoError(t, err)

	h, err := NewHandler(a, opts...)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestSymptomCheck(t *testing.T) {
	tests := []struct {
		name     string
		response llm.MockResponse
		wantQID  string
		wantText string
	}{
		{"classified", llm.MockResponse{Text: "Heart Attack"}, "q3_a", "Are they clutching their chest or experiencing severe chest pain?"},
		{"no match", llm.MockResponse{Text: "No Match"}, "start", "Are they conscious and responsive?"},
		{"provider failure", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}}, "start", "Are they conscious and responsive?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, []llm.MockResponse{tt.response})
			w, out := do(t, h, http.MethodPost, "/api/symptom_check", `{"symptoms":"crushing chest pain"}`)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "question", out["status"])
			assert.Equal(t, tt.wantQID, out["next_q_id"])
			assert.Equal(t, tt.wantText, out["question"])
		})
	}
}

func TestSymptomCheck_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty symptoms", `{"symptoms":""}`, "No symptoms provided."},
		{"whitespace symptoms", `{"symptoms":"   "}`, "No symptoms provided."},
		{"missing field", `{}`, ""},
		{"wrong type", `{"symptoms":42}`, ""},
		{"not json", `symptoms`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, nil)
			w, out := do(t, h, http.MethodPost, "/api/symptom_check", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", out["status"])
			if tt.message != "" {
				assert.Equal(t, tt.message, out["message"])
			} else {
				assert.NotEmpty(t, out["message"])
			}
		})
	}
}

func TestAnswer(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("initial", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"q5_a","answer":"initial"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "question", out["status"])
		assert.Equal(t, "start", out["next_q_id"])
	})

	for name, body := range map[string]string{
		"initial without node":   `{"answer":"initial"}`,
		"initial with null node": `{"current_q_id":null,"answer":"initial"}`,
	} {
		t.Run(name, func(t *testing.T) {
			w, out := do(t, h, http.MethodPost, "/api/answer", body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "question", out["status"])
			assert.Equal(t, "start", out["next_q_id"])
			assert.Equal(t, "Are they conscious and responsive?", out["question"])
		})
	}

	t.Run("missing node with real answer", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"answer":"yes"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error", out["status"])
	})

	t.Run("next question", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"start","answer":"no"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "q1_b", out["next_q_id"])
		assert.Equal(t, "Do they have a pulse?", out["question"])
		assert.NotContains(t, out, "diagnosis")
	})

	t.Run("diagnosis", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"q2_a","answer":"yes"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "diagnosis", out["status"])
		assert.Equal(t, "diag_bleeding", out["diagnosis_id"])
		assert.True(t, strings.HasPrefix(out["diagnosis"].(string), "Possible Severe Bleeding."))
		assert.NotContains(t, out, "next_q_id")
	})

	t.Run("invalid answer", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"start","answer":"maybe"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error", out["status"])
	})

	t.Run("unknown node", func(t *testing.T) {
		w, out := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"q9_z","answer":"yes"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error", out["status"])
	})

	t.Run("missing answer", func(t *testing.T) {
		w, _ := do(t, h, http.MethodPost, "/api/answer", `{"current_q_id":"start"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTree(t *testing.T) {
	h := newTestHandler(t, nil)
	w, out := do(t, h, http.MethodGet, "/api/tree", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "start", out["root"])
	assert.EqualValues(t, 7, out["depth"])
	assert.Len(t, out["nodes"], 17)
	assert.Len(t, out["entry_points"], 7)
}

func TestGetStats(t *testing.T) {
	h := newTestHandler(t, nil)
	w, out := do(t, h, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "error", out["status"])

	h = newTestHandler(t, nil, WithStats(func(context.Context) (any, error) {
		return map[string]map[string]int{"diagnoses": {"diag_stroke": 3}}, nil
	}))
	w, out = do(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"diag_stroke": float64(3)}, out["diagnoses"])

	h = newTestHandler(t, nil, WithStats(func(context.Context) (any, error) {
		return nil, errors.New("redis down")
	}))
	w, _ = do(t, h, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAmbientRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("triage_steps_total 0\n"))
	})
	h := newTestHandler(t, nil, WithMetricsHandler(metrics))

	w, out := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])

	w, out = do(t, h, http.MethodGet, "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "triage-http", out["app"])
	assert.Equal(t, "1.0.0", out["api_version"])

	w, _ = do(t, h, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/symptom_check")

	w, _ = do(t, h, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "triage_steps_total")

	w, _ = do(t, h, http.MethodGet, "/swagger", "")
	assert.Contains(t, w.Body.String(), "swagger-ui")
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, nil)
	w, _ := do(t, h, http.MethodOptions, "/api/answer", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWrongMethod(t *testing.T) {
	h := newTestHandler(t, nil)
	w, _ := do(t, h, http.MethodGet, "/api/answer", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGetSpec(t *testing.T) {
	doc, err := GetSpec()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/answer"))
}
