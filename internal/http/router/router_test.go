package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsha/subjects-api/internal/config"
	"github.com/harsha/subjects-api/internal/storage/sqldb/sqldbtest"
	"github.com/harsha/subjects-api/internal/types"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(New(cfg, sqldbtest.Seeded(t), log))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHelloAndAdd(t *testing.T) {
	srv := newServer(t)

	resp, body := get(t, srv.URL+"/hello")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body)

	resp, body = get(t, srv.URL+"/add/3,4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum types.Addition
	require.NoError(t, json.Unmarshal([]byte(body), &sum))
	assert.Equal(t, int64(7), sum.Result)
	assert.Equal(t, "3", sum.Operand1)
	assert.Equal(t, "4", sum.Operand2)
}

func TestUserSubjectsAlias(t *testing.T) {
	srv := newServer(t)

	_, viaSubjects := get(t, srv.URL+"/api/subjects/users/3")
	resp, viaUsers := get(t, srv.URL+"/api/users/3/subjects")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, viaSubjects, viaUsers)
}

func TestCORSAndRequestIDHeaders(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/subjects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://anywhere.example.org")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCreateThenReadBack(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/api/subjects", "application/json",
		strings.NewReader(`{"SubjectName":"Astronomy","SubjectLecturerID":2}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created types.Subject
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	_, body := get(t, srv.URL+"/api/subjects/lecturer/2")
	var taught []types.Subject
	require.NoError(t, json.Unmarshal([]byte(body), &taught))
	assert.Contains(t, taught, created)
}

func TestConcurrentGetsReturnIdenticalData(t *testing.T) {
	srv := newServer(t)
	_, want := get(t, srv.URL+"/api/subjects/2")

	var wg sync.WaitGroup
	bodies := make([]string, 20)
	for i := range bodies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Get(srv.URL + "/api/subjects/2")
			if err != nil {
				return
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			bodies[i] = string(b)
		}(i)
	}
	wg.Wait()

	for _, b := range bodies {
		assert.Equal(t, want, b)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)

	get(t, srv.URL+"/api/subjects/999")
	resp, body := get(t, srv.URL+"/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `subjects_api_http_requests_total{code="404",method="GET"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t)

	resp, _ := get(t, srv.URL+"/api/teachers")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
