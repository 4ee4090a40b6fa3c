package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/pricecraft/internal/recommend"
	"github.com/theirongolddev/pricecraft/internal/recommend/openai"
)

func TestNew_Success(t *testing.T) {
	backend, err := openai.New(openai.Config{
		APIKey:     "test-api-key",
		BaseURL:    "https://api.openai.com/v1",
		Timeout:    60,
		MaxRetries: 3,
	})

	require.NoError(t, err)
	require.NotNil(t, backend)
	require.Equal(t, "openai", backend.Name())
	require.Equal(t, openai.DefaultModel, backend.Model())
	require.True(t, backend.Available())
}

func TestNew_MissingAPIKey(t *testing.T) {
	backend, err := openai.New(openai.Config{})

	require.Error(t, err)
	require.Nil(t, backend)
	require.Contains(t, err.Error(), "OpenAI API key is required")
}

// completionServer answers every chat completion with content and records
// the decoded request bodies.
func completionServer(t *testing.T, content string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
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
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req["model"],
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestBackend_Chat(t *testing.T) {
	srv, requests := completionServer(t, "What materials do you use?")

	backend, err := openai.New(openai.Config{APIKey: "k", BaseURL: srv.URL + "/v1/", MaxRetries: 1})
	require.NoError(t, err)

	reply, err := backend.Chat(context.Background(), []recommend.Message{
		{Role: recommend.RoleSystem, Content: recommend.AdvisorPrompt},
		{Role: recommend.RoleUser, Content: "I make candles"},
	})
	require.NoError(t, err)
	require.Equal(t, "What materials do you use?", reply)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	require.Equal(t, openai.DefaultModel, req["model"])
	require.InDelta(t, 0.7, req["temperature"], 1e-9)
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	require.Equal(t, "system", msgs[0].(map[string]any)["role"])
	require.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestBackend_Recommend(t *testing.T) {
	t.Run("parses JSON answer", func(t *testing.T) {
		srv, requests := completionServer(t,
			`{"material_cost":5,"hours_worked":2,"labor_rate":15,"uniqueness":6,"demand":7,"selling_price":0,"explanation":"Simple piece."}`)

		backend, err := openai.New(openai.Config{APIKey: "k", BaseURL: srv.URL + "/v1/", Model: "gpt-4o", MaxRetries: 1})
		require.NoError(t, err)

		rec, err := backend.Recommend(context.Background(), "User: I make rings")
		require.NoError(t, err)
		require.Equal(t, recommend.SourceAI, rec.Source)
		require.Equal(t, 6.0, rec.Uniqueness)
		require.Equal(t, "Simple piece.", rec.Explanation)

		req := (*requests)[0]
		require.Equal(t, "gpt-4o", req["model"])
		format, ok := req["response_format"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "json_object", format["type"])
	})

	t.Run("malformed answer", func(t *testing.T) {
		srv, _ := completionServer(t, `{"material_cost":5}`)

		backend, err := openai.New(openai.Config{APIKey: "k", BaseURL: srv.URL + "/v1/", MaxRetries: 1})
		require.NoError(t, err)

		_, err = backend.Recommend(context.Background(), "User: hi")
		require.ErrorIs(t, err, recommend.ErrMalformed)
	})
}
