package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testClient replays cookies between requests the way a browser would.
type testClient struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, engine *gin.Engine) *testClient {
	return &testClient{t: t, engine: engine, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	tc.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(tc.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	tc.engine.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		tc.cookies[c.Name] = c
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
