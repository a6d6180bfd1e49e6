package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zr3/rprompt/internal/imaging"
)

func testImage() *imaging.Image {
	return &imaging.Image{
		Path:   "sample.png",
		Data:   []byte{0x89, 0x50, 0x4e, 0x47},
		MIME:   "image/png",
		Format: "png",
		Width:  1,
		Height: 1,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("GEMINI_BASE_URL", server.URL)
	return NewClient("gemini-2.5-flash", "test-key")
}

func TestDescribe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-2.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var request generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.Len(t, request.Contents, 1)
		require.Len(t, request.Contents[0].Parts, 2)
		assert.Equal(t, "describe this", request.Contents[0].Parts[0].Text)
		inline := request.Contents[0].Parts[1].InlineData
		require.NotNil(t, inline)
		assert.Equal(t, "image/png", inline.MIMEType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(testImage().Data), inline.Data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A red square "},{"text":"on white."}]},"finishReason":"STOP"}]}`))
	})

	text, err := client.Describe(context.Background(), "describe this", testImage())
	require.NoError(t, err)
	assert.Equal(t, "A red square  on white.", text)
}

func TestDescribeSafetyFinishReason(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrSafetyBlocked)
}

func TestDescribeBlockedPrompt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrSafetyBlocked)
}

func TestDescribeRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDescribeProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrProvider)
}

func TestDescribeNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrParse)
}

func TestDescribeEmptyParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]},"finishReason":"STOP"}]}`))
	})

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrParse)
}

func TestDescribeUnreachable(t *testing.T) {
	t.Setenv("GEMINI_BASE_URL", "http://127.0.0.1:1")
	client := NewClient("", "test-key")

	_, err := client.Describe(context.Background(), "describe this", testImage())
	assert.ErrorIs(t, err, ErrProvider)
}

func TestDescribeEscapesAPIKey(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]},"finishReason":"STOP"}]}`))
	}))
	t.Cleanup(server.Close)
	t.Setenv("GEMINI_BASE_URL", server.URL)

	key := "abc+def/ghi=&?"
	client := NewClient("", key)
	_, err := client.Describe(context.Background(), "describe this", testImage())
	require.NoError(t, err)
	assert.Equal(t, key, <-received, "query parsing must round-trip the raw key")
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "k")
	assert.Equal(t, DefaultModel, client.Model())
}
