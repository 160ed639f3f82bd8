package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/edurag/ragserver/internal/api/handlers"
	"github.com/edurag/ragserver/internal/api/middleware"
	"github.com/edurag/ragserver/internal/assist"
	"github.com/edurag/ragserver/internal/auth"
	"github.com/edurag/ragserver/internal/config"
	"github.com/edurag/ragserver/internal/queue"
	"github.com/edurag/ragserver/internal/rag"
)

type Router struct {
	mux       *chi.Mux
	cfg       *config.Config
	redis     *redis.Client
	ragSvc    *rag.Service
	assistSvc *assist.Service
	queueC    *queue.Client
	jwt       *auth.JWTMiddleware
}

func NewRouter(cfg *config.Config, rdb *redis.Client, ragSvc *rag.Service, assistSvc *assist.Service, qc *queue.Client) *Router {
	return &Router{
		mux:       chi.NewRouter(),
		cfg:       cfg,
		redis:     rdb,
		ragSvc:    ragSvc,
		assistSvc: assistSvc,
		queueC:    qc,
		jwt:       auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/", health.Root)
	r.Get("/readyz", health.Readyz)

	ragH := handlers.NewRAGHandler(rt.ragSvc)
	assistH := handlers.NewAssistHandler(rt.assistSvc)
	ingestH := handlers.NewIngestHandler(rt.queueC, rt.cfg.Ingest.BasePath)

	r.Group(func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		r.Route("/rag", func(r chi.Router) {
			r.Post("/query", ragH.Query)
			r.Post("/search", ragH.Search)
		})

		r.Post("/summarizer/summarize", assistH.Summarize)
		r.Post("/qa/answer", assistH.Answer)
		r.Post("/translate/urdu", assistH.TranslateUrdu)

		r.Post("/ingest", ingestH.Enqueue)
	})

	return r
}
