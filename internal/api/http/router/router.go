package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/unklab/lostfound-server/internal/access"
	"github.com/unklab/lostfound-server/internal/api/http/handler"
	"github.com/unklab/lostfound-server/internal/api/http/httpctx"
	"github.com/unklab/lostfound-server/internal/api/http/middleware"
	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/service"
)

// Router wires services to HTTP routes with logging, authentication and
// capability enforcement.
type Router struct {
	authService  *service.Auth
	resetService *service.Reset
	usersService *service.Users
	tokens       model.TokenManager
	userStore    model.UserStore
	db           handler.Pinger
	ctxMgr       *httpctx.Manager
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	resetService *service.Reset,
	usersService *service.Users,
	tokens model.TokenManager,
	userStore model.UserStore,
	db handler.Pinger,
	ctxMgr *httpctx.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:  authService,
		resetService: resetService,
		usersService: usersService,
		tokens:       tokens,
		userStore:    userStore,
		db:           db,
		ctxMgr:       ctxMgr,
		logger:       logger,
	}
}

// Register builds the route tree. Logging and token resolution run on every
// request; each subtree declares the capability it requires.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.userStore, r.ctxMgr, r.logger)
	gate := middleware.NewGate(r.ctxMgr, r.logger)

	authHandler := handler.NewAuth(r.authService, r.tokens, r.ctxMgr, r.logger)
	resetHandler := handler.NewReset(r.resetService, r.logger)
	usersHandler := handler.NewUsers(r.usersService, r.ctxMgr, r.logger)
	healthHandler := handler.NewHealth(r.db)

	root := mux.NewRouter()
	root.Use(logging.Handle, authenticate.Resolve)

	root.HandleFunc("/healthz", healthHandler.Check).Methods(http.MethodGet)

	api := root.PathPrefix("/api").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(gate.Require(access.Public))
	public.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/password-reset/request", resetHandler.Request).Methods(http.MethodPost)
	public.HandleFunc("/password-reset/validate/{token}", resetHandler.Validate).Methods(http.MethodGet)
	public.HandleFunc("/password-reset/reset", resetHandler.ResetPassword).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(gate.Require(access.AuthenticatedUser))
	authed.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods(http.MethodPost)
	authed.HandleFunc("/users/me", authHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/users/me/name", usersHandler.UpdateName).Methods(http.MethodPatch)
	authed.HandleFunc("/users/me/avatar", usersHandler.UploadAvatar).Methods(http.MethodPut)
	authed.HandleFunc("/users/me/avatar", usersHandler.DownloadOwnAvatar).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}/avatar", usersHandler.DownloadAvatar).Methods(http.MethodGet)

	admin := api.NewRoute().Subrouter()
	admin.Use(gate.Require(access.AdminOnly))
	admin.HandleFunc("/users", usersHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", usersHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/status", usersHandler.SetStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}/role", usersHandler.SetRole).Methods(http.MethodPatch)

	return root
}
