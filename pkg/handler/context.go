package handler

// DI for all handlers.

import (
	mydb "github.com/yumyai/methmmdb/pkg/db"
	"github.com/yumyai/methmmdb/pkg/model"
)

type AppContext struct {
	HMMs          *mydb.HMMDB
	Metadata      *mydb.Metadata
	Catalog       *mydb.Catalog // nil when no catalog is configured
	Searcher      *model.Searcher
	DefaultEValue float64
	MaxEValue     float64
}
