package httpServer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GetTogetherComm/GetTogether/internal/config"
	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/routers"
	"github.com/GetTogetherComm/GetTogether/internal/utils/logger/sl"
)

type HttpServer struct {
	log    *slog.Logger
	server *http.Server
}

func NewHttpServer(log *slog.Logger, router *routers.Router, cfg *config.Config) *HttpServer {
	mux := chi.NewRouter()
	router.Mount(mux)

	addr := fmt.Sprintf("%s:%s", cfg.HttpServer.Address, cfg.HttpServer.Port)
	return &HttpServer{
		log: log,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  cfg.HttpServer.Timeout,
			WriteTimeout: cfg.HttpServer.Timeout,
		},
	}
}

func (s *HttpServer) Listen() {
	op := "httpServer.Listen()"
	log := s.log.With(slog.String("op", op))

	log.Info("http server listening", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("http server stopped", sl.Err(err))
	}
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
