package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yumyai/methmmdb/logger"
	"github.com/yumyai/methmmdb/pkg/handler/params"
	"github.com/yumyai/methmmdb/pkg/handler/request"
	"github.com/yumyai/methmmdb/pkg/model"
	"go.uber.org/zap"
)

const maxSearchBodyBytes = 1 << 20

// SearchHandler serves POST /search: validate, search all profiles, respond
// with hits sorted by E-value.
func (app *AppContext) SearchHandler(w http.ResponseWriter, r *http.Request) {

	log := logger.FromContext(r.Context())

	var req request.SearchRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodyBytes)
	// Unknown fields are ignored.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid search request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	evalue, err := params.ParseEValue(r.URL.Query().Get("evalue"), app.DefaultEValue, app.MaxEValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if app.HMMs.Len() == 0 {
		log.Error("HMM database is not loaded or empty. Cannot perform search.")
		writeError(w, http.StatusServiceUnavailable, "HMM database not available. Please check server logs.")
		return
	}

	result, err := app.Searcher.Search(r.Context(), *req.Sequence, evalue)

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, model.ErrInvalidSequence):
		log.Warn("Invalid sequence or search parameter", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrDatabaseUnavailable):
		log.Error("HMM database is not loaded or empty. Cannot perform search.")
		writeError(w, http.StatusServiceUnavailable, "HMM database not available. Please check server logs.")
	default:
		log.Error("Error during HMM search", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error during search.")
	}
}
