package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen2.5:3b-instruct", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, DefaultOptions(), req.Options)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"role":"assistant","content":"{\"title\":\"x\"}"},"done":true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.Chat(context.Background(), ChatRequest{
		Model: "qwen2.5:3b-instruct",
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hi"},
		},
		Stream:  true,
		Options: DefaultOptions(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, got)
}

func TestChat_HTTPErrorTruncatesBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(strings.Repeat("e", 2000))) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Chat(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: status 404")
	assert.NotContains(t, err.Error(), strings.Repeat("e", 501))
}

func TestChat_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"message":{"role":"assistant","content":"ok"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, WithRetries(1)).Chat(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChat_ContentNotString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"number content", `{"message":{"role":"assistant","content":42}}`},
		{"missing message", `{"done":true}`},
		{"missing content", `{"message":{"role":"assistant"}}`},
		{"not json", `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, WithRetries(0)).Chat(context.Background(), ChatRequest{Model: "m"})
			require.Error(t, err)
		})
	}
}

func TestChat_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"message":{"content":"late"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTimeout(20*time.Millisecond), WithRetries(0))
	_, err := client.Chat(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: chat request")
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))

	// "エラー" is three 3-byte runes; cuts land on rune boundaries.
	assert.Equal(t, "エ", truncate("エラー", 4))
	assert.Equal(t, "エラ", truncate("エラー", 6))
	assert.Equal(t, "", truncate("エラー", 2))
}

func TestChat_HTTPErrorKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("x" + strings.Repeat("モデルが見つかりません", 40))) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithRetries(0)).Chat(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
}
