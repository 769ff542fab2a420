package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/methmmdb/pkg/handler/types"
)

func getHealth(t *testing.T, app *AppContext, path string) types.HealthResponse {
	t.Helper()
	rr := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck_Loaded(t *testing.T) {
	app := newTestApp(t, []string{"As_lyase_1", "Cu_copA"}, defaultEngine())

	for i := 0; i < 3; i++ {
		resp := getHealth(t, app, "/health")
		assert.Equal(t, "ok", resp.Status)
		assert.True(t, resp.Loaded)
		assert.Equal(t, 2, resp.HMMCount)
		assert.Equal(t, 3, resp.MetadataCount)
	}

	// searches must not change what health reports
	doSearch(t, app, "", `{"sequence": "MKV"}`)
	resp := getHealth(t, app, "/api/v1/health")
	assert.Equal(t, 2, resp.HMMCount)
}

func TestHealthCheck_Empty(t *testing.T) {
	app := newTestApp(t, nil, defaultEngine())

	resp := getHealth(t, app, "/health")
	assert.Equal(t, "warning", resp.Status)
	assert.False(t, resp.Loaded)
	assert.Equal(t, 0, resp.HMMCount)
	assert.Equal(t, "HMM database not loaded or empty", resp.Message)
}
