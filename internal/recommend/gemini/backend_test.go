package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/recommend/gemini"
)

func TestNew_MissingAPIKey(t *testing.T) {
	backend, err := gemini.New(context.Background(), gemini.Config{})
	require.Error(t, err)
	require.Nil(t, backend)
	require.Contains(t, err.Error(), "empty api key")
}

func TestNew_DefaultModel(t *testing.T) {
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "gemini", backend.Name())
	require.Equal(t, gemini.DefaultModel, backend.Model())
	require.True(t, backend.Available())
}

func generateServer(t *testing.T, text string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestBackend_Chat(t *testing.T) {
	srv, requests := generateServer(t, "How long does each piece take?")
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	reply, err := backend.Chat(context.Background(), []recommend.Message{
		{Role: recommend.RoleSystem, Content: recommend.AdvisorPrompt},
		{Role: recommend.RoleUser, Content: "I knit scarves"},
		{Role: recommend.RoleAssistant, Content: "Lovely. What yarn?"},
		{Role: recommend.RoleUser, Content: "Merino, about $12 a scarf"},
	})
	require.NoError(t, err)
	require.Equal(t, "How long does each piece take?", reply)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Contains(t, req, "systemInstruction")
	contents, ok := req["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 3, "system prompt is not sent as a turn")
}

func TestBackend_ChatRequiresUserTurn(t *testing.T) {
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = backend.Chat(context.Background(), nil)
	require.Error(t, err)

	_, err = backend.Chat(context.Background(), []recommend.Message{{Role: recommend.RoleAssistant, Content: "hi"}})
	require.ErrorContains(t, err, "last message must be from user")
}

func TestBackend_Recommend(t *testing.T) {
	srv, requests := generateServer(t,
		`{"material_cost":25,"hours_worked":8,"labor_rate":20,"uniqueness":9,"demand":5,"explanation":"Gallery piece."}`)
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	rec, err := backend.Recommend(context.Background(), "User: I paint")
	require.NoError(t, err)
	require.Equal(t, recommend.SourceAI, rec.Source)
	require.Equal(t, 25.0, rec.MaterialCost)
	require.Zero(t, rec.SellingPrice)

	gen, ok := (*requests)[0]["generationConfig"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "application/json", gen["responseMimeType"])
}

func flakyServer(t *testing.T, failures int, text string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 503, "message": "overloaded", "status": "UNAVAILABLE"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestBackend_RetriesTransientFailure(t *testing.T) {
	srv, calls := flakyServer(t, 1,
		`{"material_cost":5,"hours_worked":2,"labor_rate":15,"uniqueness":6,"demand":7,"explanation":"Earrings."}`)
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL + "/", MaxRetries: 2})
	require.NoError(t, err)

	rec, err := backend.Recommend(context.Background(), "User: I make earrings")
	require.NoError(t, err)
	require.Equal(t, 5.0, rec.MaterialCost)
	require.Equal(t, 2, *calls)
}

func TestBackend_NoRetriesByDefault(t *testing.T) {
	srv, calls := flakyServer(t, 1, `{}`)
	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = backend.Recommend(context.Background(), "User: I make earrings")
	require.Error(t, err)
	require.Equal(t, 1, *calls)
}

func TestBackend_RequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	backend, err := gemini.New(context.Background(), gemini.Config{APIKey: "k", BaseURL: srv.URL + "/", Timeout: 1})
	require.NoError(t, err)

	start := time.Now()
	_, err = backend.Recommend(context.Background(), "User: I make earrings")
	require.Error(t, err)
	require.Less(t, time.Since(start), 10*time.Second)
}
