// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"

	"github.com/yumyai/methmmdb/pkg/handler/types"
)

func (app *AppContext) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := types.HealthResponse{
		Status:        "ok",
		Loaded:        true,
		HMMCount:      app.HMMs.Len(),
		MetadataCount: app.Metadata.Len(),
		Timestamp:     time.Now(),
	}

	if response.HMMCount == 0 {
		response.Status = "warning"
		response.Loaded = false
		response.Message = "HMM database not loaded or empty"
	}

	writeJSON(w, http.StatusOK, response)
}
