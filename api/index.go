package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/core/codegen"
	"github.com/wadjakorntonsri/tinylink/pkg/core/services"
	"github.com/wadjakorntonsri/tinylink/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)

	// Local SQLite files are ephemeral on serverless hosts; point DATABASE_URL at libsql or Postgres.
	repo, err := sqldb.NewRepository(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		panic(err)
	}

	codes, err := codegen.New(codegen.DefaultLength)
	if err != nil {
		panic(err)
	}

	links := services.NewLinkService(repo, codes, logger)
	redirects := services.NewRedirectService(repo, logger)
	mux = handler.NewRouter(cfg, links, redirects, logger)
}

// Handler is the serverless entrypoint
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
