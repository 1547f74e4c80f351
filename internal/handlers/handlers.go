package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"notedeck/api/internal/config"
	"notedeck/api/internal/middleware"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
	"notedeck/api/internal/service"
)

// NoteStore is the scoped note repository surface. Every call carries the
// owner id resolved by the auth middleware; the store never resolves identity
// itself.
type NoteStore interface {
	Create(ctx context.Context, note models.Note) error
	GetForOwner(ctx context.Context, ownerID string, id string) (models.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.NoteListItem, error)
	DeleteForOwner(ctx context.Context, ownerID string, id string) error
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	users       middleware.UserLoader
	notes       NoteStore
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	throttle := service.NewLoginThrottle(cache, cfg.Security.LoginAttempts, cfg.Security.LoginWindow, log)
	auth := service.NewAuthService(userRepo, throttle, cfg, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		users:       userRepo,
		notes:       noteRepo,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	guest := router.Group("/", middleware.RedirectIfAuthenticated(h.cfg))
	guest.POST("/join", h.Join)
	guest.POST("/login", h.Login)

	router.POST("/logout", h.Logout)

	api := router.Group("/api", middleware.Auth(h.cfg, h.users, h.log))
	api.GET("/me", h.Me)
	api.GET("/notes", h.ListNotes)
	api.POST("/notes", h.CreateNote)
	api.GET("/notes/:noteId", h.GetNote)
	api.DELETE("/notes/:noteId", h.DeleteNote)
}
