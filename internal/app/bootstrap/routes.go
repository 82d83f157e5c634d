// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	adminfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/admin"
	authgooglefeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/authgoogle"
	errorsfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/errors"
	healthfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/health"
	loginfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/login"
	logoutfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/logout"
	whiteboardfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/whiteboard"
	wizardfeature "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/features/wizard"
	divisions "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/divisions"
	hospitals "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/hospitals"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/oauthstate"
	userstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/users"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/auth"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/directory"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/identity"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/metrics"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// BuildHandler wires sessions, CSRF, templates and the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user data on each request, so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	users := userstore.New(deps.MongoDatabase)
	authn, err := newAuthenticator(appCfg, users)
	if err != nil {
		logger.Error("identity provider init failed", zap.Error(err))
		return nil, err
	}

	board := whiteboard.New(whiteboard.Config{
		Staff:   deps.Board.Staff,
		Board:   deps.Board.Board,
		History: deps.Board.History,
		Metrics: m,
		Logger:  logger.Named("board"),
	})
	divisionStore := divisions.New(deps.MongoDatabase)
	hospitalStore := hospitals.New(deps.MongoDatabase)
	dir := directory.New(divisionStore, hospitalStore)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Machine endpoints sit outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.StoreBackend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(plaintextCSRF)
		}
		r.Use(csrf.Protect([]byte(appCfg.CSRFKey),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
		))
		r.Use(sessionMgr.LoadSessionUser)

		googleHandler := authgooglefeature.NewHandler(
			oauthstate.New(deps.MongoDatabase), users, sessionMgr, m,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, appCfg.AdminURL,
			logger,
		)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		loginHandler := loginfeature.NewHandler(authn, sessionMgr, m, errLog, appCfg.AdminURL, googleHandler.IsConfigured(), logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		wizardHandler := wizardfeature.NewHandler(dir, sessionMgr, errLog, logger)
		r.Mount("/select-division", wizardfeature.DivisionRoutes(wizardHandler, sessionMgr))
		r.Mount("/select-hospital", wizardfeature.HospitalRoutes(wizardHandler, sessionMgr))

		adminHandler := adminfeature.NewHandler(users, divisionStore, hospitalStore, deps.HistoryReader, logger)
		r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)

		boardHandler := whiteboardfeature.NewHandler(board, sessionMgr, errLog, logger)
		r.Mount("/", whiteboardfeature.Routes(boardHandler, sessionMgr))
	})

	return r, nil
}

// newAuthenticator picks the password checker named by auth_provider.
func newAuthenticator(appCfg AppConfig, users identity.UserLookup) (identity.Authenticator, error) {
	switch appCfg.AuthProvider {
	case providerCognito:
		c, err := identity.NewCognito(context.Background(), identity.CognitoConfig{
			Region:       appCfg.CognitoRegion,
			Endpoint:     appCfg.CognitoEndpoint,
			ClientID:     appCfg.CognitoClientID,
			ClientSecret: appCfg.CognitoClientSecret,
		}, users)
		if err != nil {
			return nil, fmt.Errorf("cognito: %w", err)
		}
		return c, nil
	case providerLocal, "":
		return identity.NewLocal(users), nil
	default:
		return nil, fmt.Errorf("unknown auth_provider %q", appCfg.AuthProvider)
	}
}

// plaintextCSRF marks requests as plain HTTP so gorilla/csrf skips its
// TLS-only Referer check in development.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
