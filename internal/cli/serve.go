package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vitalvas/reqspec/internal/config"
	"github.com/vitalvas/reqspec/internal/logging"
	"github.com/vitalvas/reqspec/internal/routesfile"
	"github.com/vitalvas/reqspec/muxhandlers"
	"github.com/vitalvas/reqspec/router"
	"github.com/vitalvas/reqspec/spec"
	"github.com/vitalvas/reqspec/swagger"
	"github.com/vitalvas/reqspec/validate"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the routes of a routes file with request validation",
		Long: "Serve registers every route of the routes file with request validation. " +
			"Valid requests are answered with their sanitized parameters as JSON. " +
			"The document and its interactive docs are served under api.docs_path.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, f, err := loadRoutes(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewWriter(cmd.OutOrStdout(), cfg.Log.Level, cfg.Log.Pretty)

			h, err := newHandler(cfg, f, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return listen(ctx, cfg, h, logger)
		},
	}
}

// newHandler builds the router serving f.
func newHandler(cfg *config.Config, f *routesfile.File, logger zerolog.Logger) (http.Handler, error) {
	bodyLimit, err := muxhandlers.BodyLimit(cfg.Server.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	r := router.New(router.WithLogger(logger))
	r.Use(
		muxhandlers.RequestID(muxhandlers.RequestIDConfig{Logger: &logger}),
		muxhandlers.AccessLog(logger, muxhandlers.AccessLogConfig{}),
		muxhandlers.Recovery(logger),
		bodyLimit,
	)

	if err := f.BuildFunc(r, echoHandler); err != nil {
		return nil, err
	}

	if cfg.API.DocsPath != "" {
		newSpec(cfg, f).Handle(r.Mux(), r, cfg.API.DocsPath, &swagger.HandleConfig{Title: cfg.API.Title})
	}

	return r, nil
}

// echoHandler answers with the sanitized request, after checking the
// media types the operations of rs consume.
func echoHandler(rs *spec.RouteSpec) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := validate.FromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
			return
		}

		zerolog.Ctx(r.Context()).Debug().Str("method", req.Method).Msg("echo")

		writeJSON(w, http.StatusOK, echoResponse{
			Method: req.Method,
			Path:   req.Path,
			Query:  req.Query,
			Body:   req.Body,
		})
	})

	return muxhandlers.Consumes(rs, "application/json", "application/x-www-form-urlencoded", "multipart/form-data")(echo)
}

type echoResponse struct {
	Method string         `json:"method"`
	Path   map[string]any `json:"path,omitempty"`
	Query  map[string]any `json:"query,omitempty"`
	Body   map[string]any `json:"body,omitempty"`
}

// listen serves h until ctx is done, then shuts down gracefully.
func listen(ctx context.Context, cfg *config.Config, h http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("routes", cfg.Routes.File).Msg("server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
