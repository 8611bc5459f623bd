package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"tablescout.dev/TableScout/configs"
	"tablescout.dev/TableScout/pkg/geocoder"
	"tablescout.dev/TableScout/pkg/repository"
	"tablescout.dev/TableScout/pkg/server"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".TableScout.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(cmdCtx *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	if err = os.MkdirAll(conf.Uploads.Directory, 0o755); err != nil {
		logger.Error("error creating upload directory", zap.String("directory", conf.Uploads.Directory), zap.Error(err))

		return err
	}

	if !cmdCtx.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	nominatim := geocoder.NewNominatimClient(conf, logger)

	restaurants := server.NewRestaurantServer(repo, nominatim, conf, logger)
	maintainer := server.NewAverageCostMaintainer(repo, logger)
	foods := server.NewFoodServer(repo, repo, maintainer, logger)

	router := server.NewRouter(restaurants, foods, logger)

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(router)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	logger.Info("listening", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
		},
		MaxAge: 86400, // 24 hours
	})

	return corsOpts.Handler(handler)
}
