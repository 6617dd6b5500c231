package main

import (
	"flag"

	"go-jam-pipeline/internal/api"
	"go-jam-pipeline/internal/store"
)

// @title Jam Pipeline API
// @version 1.0
// @description Batch peak-bagging job API
// @BasePath /api/v1
func main() {
	bind := flag.String("bind", ":8080", "address to listen on")
	dbPath := flag.String("db", "jam.db", "path to the batch store")
	flag.Parse()

	// Init DB
	if err := store.InitDB(*dbPath); err != nil {
		panic(err)
	}

	// Create router with API routes registered
	r := api.NewRouter()

	// Start server
	r.Start(*bind)
}
