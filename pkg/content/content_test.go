package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor/pkg/config"
)

// contentServer fakes the content service: login plus the create and
// derived-operation endpoints, all requiring a bearer token.
type contentServer struct {
	*httptest.Server
	logins     atomic.Int64
	creates    atomic.Int64
	lastCreate map[string]any
	failCreate bool
}

func newContentServer(t *testing.T) *contentServer {
	t.Helper()
	cs := &contentServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		cs.logins.Add(1)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] != "admin" || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/api/v1/content/create", authed(func(w http.ResponseWriter, r *http.Request) {
		cs.creates.Add(1)
		if cs.failCreate {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"invalid content"}`))
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		cs.lastCreate = body
		json.NewEncoder(w).Encode(map[string]string{"content_id": "cid-42"})
	}))

	echoContentID := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "content_id": body["content_id"]})
	}
	mux.HandleFunc("/api/v1/agents/generate-content", authed(echoContentID))
	mux.HandleFunc("/api/v1/multilingual/translate", authed(echoContentID))
	mux.HandleFunc("/api/v1/agents/generate-voice", authed(echoContentID))
	mux.HandleFunc("/api/v1/security/analyze-content", authed(echoContentID))

	mux.HandleFunc("/api/v1/multilingual/detect-language", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"language": "hi", "confidence": 0.97})
	}))
	mux.HandleFunc("/api/v1/agents/platforms", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"twitter", "mastodon"})
	}))
	mux.HandleFunc("/api/v1/agents/languages", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

func newTestClient(srv *contentServer) *Client {
	return NewClient(config.ContentConfig{
		BaseURL:     srv.URL,
		Username:    "admin",
		Password:    "secret",
		AuthTimeout: 2 * time.Second,
		CallTimeout: 2 * time.Second,
	})
}

func TestGenerateContentCreatesFirst(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)
	require.True(t, client.Authenticated())

	raw, err := client.GenerateContent(context.Background(), "hello world", nil, "", "")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Equal(t, "cid-42", resp["content_id"])

	assert.Equal(t, int64(1), srv.creates.Load())
	assert.Equal(t, "hello world", srv.lastCreate["text"])
	assert.Equal(t, "tweet", srv.lastCreate["content_type"])
	assert.Equal(t, "en", srv.lastCreate["language"])
	assert.Equal(t, "mentor", srv.lastCreate["metadata"].(map[string]any)["source"])
}

func TestGenerateContentCreateFailure(t *testing.T) {
	srv := newContentServer(t)
	srv.failCreate = true
	client := newTestClient(srv)

	_, err := client.GenerateContent(context.Background(), "hello", nil, "", "")
	assert.Error(t, err)
}

func TestTranslateContent(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)

	raw, err := client.TranslateContent(context.Background(), "hello", []string{"hi", "ta"}, "")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "cid-42"))

	// An English source record is created for translation.
	assert.Equal(t, "en", srv.lastCreate["language"])

	_, err = client.TranslateContent(context.Background(), "hello", nil, "")
	assert.Error(t, err)
}

func TestGenerateVoiceDefaults(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)

	_, err := client.GenerateVoice(context.Background(), "om namah", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "voice_script", srv.lastCreate["content_type"])
	assert.Equal(t, "hi", srv.lastCreate["language"])
}

func TestGenerateAudioReturnsWavPath(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)

	path, err := client.GenerateAudio(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/audio/"))
	assert.True(t, strings.HasSuffix(path, ".wav"))
}

func TestDetectLanguageSkipsCreate(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)

	raw, err := client.DetectLanguage(context.Background(), "नमस्ते")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "hi"))
	assert.Equal(t, int64(0), srv.creates.Load())
}

func TestCapabilityLists(t *testing.T) {
	srv := newContentServer(t)
	client := newTestClient(srv)

	assert.Equal(t, []string{"twitter", "mastodon"}, client.SupportedPlatforms(context.Background()))

	// The languages endpoint errors, so defaults apply.
	langs := client.SupportedLanguages(context.Background())
	assert.Equal(t, defaultLanguages, langs)
}

func TestCapabilityListsUnreachable(t *testing.T) {
	client := NewClient(config.ContentConfig{
		BaseURL:     "http://127.0.0.1:1",
		Username:    "admin",
		Password:    "secret",
		AuthTimeout: 200 * time.Millisecond,
		CallTimeout: 200 * time.Millisecond,
	})
	assert.False(t, client.Authenticated())
	assert.Equal(t, defaultPlatforms, client.SupportedPlatforms(context.Background()))
}
