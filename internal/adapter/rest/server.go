package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/adapter/rest/middleware"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func NewServer(
	cfg config.HTTPServerConfig,
	jwtSecret string,
	feedHandler *FeedHandler,
	sponsorshipHandler *SponsorshipHandler,
	log logger.Logger,
) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/feed", feedHandler.GetFeed)
	r.Post("/feed/{sessionID}/more", feedHandler.LoadMore)
	r.Post("/feed/{sessionID}/refresh", feedHandler.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret, log))
		r.Post("/listings/{listingID}/sponsorship", sponsorshipHandler.Purchase)
	})

	r.Post("/payments/checkout/webhook", sponsorshipHandler.Webhook)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: log,
	}
}

func (s *Server) Start() error {
	s.logger.Infof("REST server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
