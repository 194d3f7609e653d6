package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"url-shortener-api/internal/cache"
	"url-shortener-api/internal/sequence"
	"url-shortener-api/internal/shortener"
	"url-shortener-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLinkRouter(svc *shortener.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLinkHandler(svc, "http://sho.rt/")
	r := gin.New()
	r.POST("/api/shorten", h.Shorten)
	r.GET("/api/recover/:token", h.Recover)
	r.GET("/api/cache/size", h.CacheSize)
	r.GET("/s/:token", h.Redirect)
	return r
}

func postShorten(r *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShorten_Success(t *testing.T) {
	r := newLinkRouter(testutil.NewService(10, time.Minute))

	w := postShorten(r, map[string]string{"url": "https://example.com/some/long/path?q=1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ShortenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Token, 8)
	require.Equal(t, "http://sho.rt/"+resp.Token, resp.ShortURL)
	require.Equal(t, "https://example.com/some/long/path?q=1", resp.OriginalURL)

	req := httptest.NewRequest(http.MethodGet, "/api/recover/"+resp.Token, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var rec RecoverResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.Equal(t, resp.OriginalURL, rec.OriginalURL)
}

func TestShorten_InvalidBody(t *testing.T) {
	r := newLinkRouter(testutil.NewService(10, time.Minute))

	w := postShorten(r, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postShorten(r, map[string]string{"url": "not a url"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShorten_CapacityExhausted(t *testing.T) {
	links := cache.NewExpiringCache(cache.Options[string, string]{MaxEntries: 10})
	svc := shortener.NewService(sequence.NewSource(62), nil, links, 1)
	r := newLinkRouter(svc)

	w := postShorten(r, map[string]string{"url": "http://example.com"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "internal error, try again later")
}

func TestRecover_NotFound(t *testing.T) {
	r := newLinkRouter(testutil.NewService(10, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/recover/00000000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "no matching long URL found, check input")

	req = httptest.NewRequest(http.MethodGet, "/s/00000000", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirect(t *testing.T) {
	svc := testutil.NewService(10, time.Minute)
	token, err := svc.Shorten("https://example.com/target")
	require.NoError(t, err)

	r := newLinkRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/s/"+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com/target", w.Header().Get("Location"))
}

func TestCacheSize(t *testing.T) {
	svc := testutil.NewService(2, time.Minute)
	for _, u := range []string{"http://a", "http://b", "http://c"} {
		_, err := svc.Shorten(u)
		require.NoError(t, err)
	}

	r := newLinkRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/cache/size", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"size":2}`, w.Body.String())
}
