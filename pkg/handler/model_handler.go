package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/yumyai/methmmdb/logger"
	mydb "github.com/yumyai/methmmdb/pkg/db"
	"github.com/yumyai/methmmdb/pkg/handler/params"
	"github.com/yumyai/methmmdb/pkg/handler/types"
	"go.uber.org/zap"
)

// ListModelsHandler serves GET /api/v1/models from the SQLite catalog when
// one is configured, otherwise from the loaded metadata.
func (app *AppContext) ListModelsHandler(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()

	page, errPage := params.ParsePage("page", q.Get("page"), params.DefaultPage)
	pageSize, errSize := params.ParsePage("page_size", q.Get("page_size"), params.DefaultPageSize)
	if err := errors.Join(errPage, errSize); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pageSize > params.MaxPageSize {
		pageSize = params.MaxPageSize
	}

	filter := mydb.ModelFilter{
		Metal:          q.Get("metal"),
		ResistanceType: q.Get("resistance_type"),
		Page:           page,
		PageSize:       pageSize,
	}

	var (
		models []mydb.ModelRecord
		total  int
	)

	if app.Catalog != nil {
		var err error
		models, total, err = app.Catalog.ListModels(r.Context(), filter)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list models", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
			return
		}
	} else {
		models, total = mydb.FilterRecords(app.Metadata.Records(), filter)
	}

	writeJSON(w, http.StatusOK, types.ModelListResponse{
		Models:   models,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetModelHandler serves GET /api/v1/models/{model_id}.
func (app *AppContext) GetModelHandler(w http.ResponseWriter, r *http.Request) {

	id := r.PathValue("model_id")

	if app.Catalog == nil {
		record, ok := app.Metadata.Record(id)
		if !ok {
			writeError(w, http.StatusNotFound, "Model not found")
			return
		}
		writeJSON(w, http.StatusOK, record)
		return
	}

	record, err := app.Catalog.GetModel(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, record)
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, "Model not found")
	default:
		logger.FromContext(r.Context()).Error("Failed to get model", zap.String("model", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
