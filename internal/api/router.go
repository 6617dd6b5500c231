package api

import (
	"go-jam-pipeline/internal/api/handler"
	"go-jam-pipeline/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-jam-pipeline/docs"
)

// NewRouter builds the API router with all routes registered.
func NewRouter() *router.Router {
	r := router.New()
	RegisterRoutes(r)
	return r
}

// RegisterRoutes wires the batch API. More specific routes first.
func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/batches", handler.CreateBatch)
	r.GET("/api/v1/batches", handler.ListBatches)
	r.GET("/api/v1/batches/*/failures", handler.GetBatchFailures)
	r.GET("/api/v1/batches/*/results", handler.GetBatchResults)
	r.POST("/api/v1/batches/*/rerun", handler.RerunBatch)
	r.GET("/api/v1/batches/*", handler.GetBatch)
	r.GET("/api/v1/download/*", handler.DownloadFile)
	r.GET("/swagger/*", httpSwagger.WrapHandler)
}
