package server

import (
	"encoding/json"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/capability"
	"github.com/AnyUserName/docbatch/internal/engine"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	eng := engine.New(engine.Config{
		Options: batch.DefaultOptions(),
		Caps:    batch.Capabilities{ImageAssembler: true},
		Log:     log,
	})
	ts := httptest.NewServer(New(eng, log).Router())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, name, body string) (int, RunResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/v1/operations/"+name, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out RunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestListOperations(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/operations")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ops []operationInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ops))
	assert.Len(t, ops, 20)
	for _, op := range ops {
		if op.Name == "rename" {
			assert.Equal(t, "text", op.Input)
		}
	}
}

func TestCapabilities(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/capabilities")
	require.NoError(t, err)
	defer resp.Body.Close()

	var caps []capability.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&caps))
	require.Len(t, caps, 3)
	assert.False(t, caps[0].Available)
	assert.True(t, caps[2].Available)
}

func TestRunOperation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(40, 20, color.White), filepath.Join(dir, "a.png")))
	ts := newTestServer(t)

	body, err := json.Marshal(RunRequest{Dir: dir})
	require.NoError(t, err)
	code, out := post(t, ts, "crop-90", string(body))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out.Status)
	require.NotNil(t, out.Result)
	assert.Equal(t, 1, out.Result.Stats.Outputs)
	assert.Contains(t, out.Text, "a !CROPPED 90.png")
}

func TestRunOperationErrors(t *testing.T) {
	ts := newTestServer(t)

	code, out := post(t, ts, "merge-pdf", `{"dir":"/does/not/exist"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NotFound", out.Kind)
	assert.True(t, strings.HasPrefix(out.Text, "NotFound: "))

	body, err := json.Marshal(RunRequest{Dir: t.TempDir()})
	require.NoError(t, err)
	code, out = post(t, ts, "rename", string(body))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "NoCredential", out.Kind)

	code, out = post(t, ts, "pdf-to-image", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "ExternalToolMissing", out.Kind)

	code, _ = post(t, ts, "shred", string(body))
	assert.Equal(t, http.StatusNotFound, code)

	code, out = post(t, ts, "merge-pdf", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidInput", out.Kind)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "merge-pdf", `{"dir":"/does/not/exist"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "docbatch_operations_total")
}
