package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
	"github.com/investimentigrugno/screener/pkg/redis"
)

func newTestClient(t *testing.T, serverURL string, withCache bool) *Client {
	t.Helper()

	cfg := &config.Config{Translate: config.TranslateConfig{Enabled: true, BaseURL: serverURL, Language: "it"}}
	var cache *redis.Cache
	if withCache {
		rc, err := redis.New(context.Background(), cfg)
		require.NoError(t, err)
		cache = redis.NewCache(rc, "test")
	}

	httpClient := httputil.New(logger.Nop(), 5*time.Second).DisableRetry()
	return NewClient(httpClient, cache, cfg, logger.Nop())
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{
			name:   "joins segments",
			status: http.StatusOK,
			body:   `[[["Le azioni salgono. ","Stocks rally. ",null,null,10],["Chiusura positiva.","Positive close.",null,null,10]],null,"en"]`,
			want:   "Le azioni salgono. Chiusura positiva.",
		},
		{
			name:   "already in target language",
			status: http.StatusOK,
			body:   `[[["Borsa in rialzo","Borsa in rialzo",null,null,10]],null,"it"]`,
			want:   "Stocks rally. Positive close.",
		},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `[null,null,"en"]`, wantErr: true},
		{name: "non string segment", status: http.StatusOK, body: `[[[42]],null,"en"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "/translate_a/single", r.URL.Path)
				assert.Equal(t, "gtx", q.Get("client"))
				assert.Equal(t, AutoDetect, q.Get("sl"))
				assert.Equal(t, "it", q.Get("tl"))
				assert.Equal(t, "Stocks rally. Positive close.", q.Get("q"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, false)

			got, err := client.Translate(context.Background(), "Stocks rally. Positive close.", "", "it")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_SkipsWithoutCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)

	tests := []struct {
		name, text, from, to string
	}{
		{"empty text", "  ", "", "it"},
		{"no target", "Hello", "", ""},
		{"same language", "Ciao", "it", "it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Translate(context.Background(), tt.text, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got)
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestTranslate_Cached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[[["Ciao","Hello",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, true)

	for i := 0; i < 2; i++ {
		got, err := client.Translate(context.Background(), "Hello", AutoDetect, "it")
		require.NoError(t, err)
		assert.Equal(t, "Ciao", got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
