package types

import (
	"time"

	mydb "github.com/yumyai/methmmdb/pkg/db"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status        string    `json:"status"`
	Loaded        bool      `json:"loaded"`
	Message       string    `json:"message,omitempty"`
	HMMCount      int       `json:"hmm_count"`
	MetadataCount int       `json:"metadata_count"`
	Timestamp     time.Time `json:"timestamp"`
}

type ModelListResponse struct {
	Models   []mydb.ModelRecord `json:"models"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
