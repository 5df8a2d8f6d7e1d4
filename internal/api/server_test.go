package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thepoff1327/N-and-N/internal/analysis"
	"github.com/thepoff1327/N-and-N/internal/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.NewHandler(analysis.New(nil), nil))
	t.Cleanup(srv.Close)
	return srv
}

func postAnalyze(t *testing.T, srv *httptest.Server, body string) (*http.Response, api.AnalyzeResponse) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/analyze", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	var out api.AnalyzeResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postAnalyze(t, srv, `{"expression": "n^2 + 3n + 2", "set": "N"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "n", out.Variable)
	assert.Equal(t, "(n + 1)*(n + 2)", out.Factored)
	assert.Equal(t, "always-even", out.Mod2)
	assert.Equal(t, "all-even", out.Pattern)
	assert.True(t, out.InSet)
	require.Len(t, out.Samples, 10)

	// n = 0 -> 2, prime.
	first := out.Samples[0]
	assert.Equal(t, int64(0), first.Input)
	assert.Equal(t, "2", first.Result)
	assert.Equal(t, "prime", first.Class)
	require.NotNil(t, first.Even)
	assert.True(t, *first.Even)
	require.NotNil(t, first.K)
	assert.Equal(t, int64(1), *first.K)
}

func TestAnalyzeEndpoint_NStar(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postAnalyze(t, srv, `{"expression": "n - 1", "set": "N*"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, out.Samples, 10)
	assert.Equal(t, int64(1), out.Samples[0].Input)
	// n = 1 gives 0, which is outside N*.
	assert.False(t, out.Samples[0].InSet)
	assert.False(t, out.InSet)
}

func TestAnalyzeEndpoint_Constant(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postAnalyze(t, srv, `{"expression": "10", "set": "N"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, out.Constant)
	assert.Empty(t, out.Samples)
	assert.Equal(t, "10", out.Constant.Result)
	assert.Equal(t, "composite", out.Constant.Class)
	assert.Equal(t, []int64{1, 2, 5, 10}, out.Constant.Divisors)
}

func TestAnalyzeEndpoint_Bindings(t *testing.T) {
	srv := newTestServer(t)
	resp, out := postAnalyze(t, srv,
		`{"expression": "n + m", "set": "N", "variable": "n", "bindings": {"m": "2"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Samples, 10)
	assert.Equal(t, "2", out.Samples[0].Result)
	assert.Equal(t, "11", out.Samples[9].Result)
}

func TestAnalyzeEndpoint_AmbiguousVariable(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postAnalyze(t, srv, `{"expression": "n + m", "set": "N"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_InvalidSet(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postAnalyze(t, srv, `{"expression": "n", "set": "Z"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_InvalidExpression(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postAnalyze(t, srv, `{"expression": "2 +", "set": "N"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_InvalidBinding(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postAnalyze(t, srv,
		`{"expression": "n + m", "set": "N", "variable": "n", "bindings": {"m": "two"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_UnknownFieldRejected(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postAnalyze(t, srv, `{"expression": "n", "set": "N", "bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
