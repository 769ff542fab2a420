package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mydb "github.com/yumyai/methmmdb/pkg/db"
	"github.com/yumyai/methmmdb/pkg/handler/types"
)

func withCatalog(t *testing.T, app *AppContext) *AppContext {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.db")
	require.NoError(t, mydb.CreateCatalog(context.Background(), path, app.Metadata.Records()))

	c, err := mydb.OpenCatalog(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	app.Catalog = c
	return app
}

func get(t *testing.T, app *AppContext, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	NewRouter(app).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestListModelsHandler(t *testing.T) {
	sources := map[string]*AppContext{
		"memory":  newTestApp(t, nil, defaultEngine()),
		"catalog": withCatalog(t, newTestApp(t, nil, defaultEngine())),
	}

	for name, app := range sources {
		t.Run(name, func(t *testing.T) {
			rr := get(t, app, "/api/v1/models?metal=Arsenic&page=2&page_size=1")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var resp types.ModelListResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, 2, resp.Total)
			assert.Equal(t, 2, resp.Page)
			assert.Equal(t, 1, resp.PageSize)
			require.Len(t, resp.Models, 1)
			assert.Equal(t, "As_lyase_2", resp.Models[0].ID)

			rr = get(t, app, "/api/v1/models?resistance_type=Efflux")
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, 1, resp.Total)
			assert.Equal(t, "Cu_copA", resp.Models[0].ID)

			rr = get(t, app, "/api/v1/models?page=x")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestGetModelHandler(t *testing.T) {
	sources := map[string]*AppContext{
		"memory":  newTestApp(t, nil, defaultEngine()),
		"catalog": withCatalog(t, newTestApp(t, nil, defaultEngine())),
	}

	for name, app := range sources {
		t.Run(name, func(t *testing.T) {
			rr := get(t, app, "/api/v1/models/As_lyase_1")
			require.Equal(t, http.StatusOK, rr.Code)

			var rec mydb.ModelRecord
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
			assert.Equal(t, "As_lyase_1", rec.ID)
			assert.Equal(t, []string{"As_lyase_2"}, rec.RelatedModels)

			rr = get(t, app, "/api/v1/models/unknown")
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}
