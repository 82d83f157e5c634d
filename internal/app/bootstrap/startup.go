// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/resources"
	userstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/users"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/authutil"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/normalize"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/timeouts"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Startup runs after schema setup and before the handler is built: shared
// templates, timeouts, site name, the bootstrap admin and optional seed data.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName)
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, userstore.New(deps.MongoDatabase), appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}

	if appCfg.SeedSampleData {
		if err := seedSampleData(ctx, deps, logger); err != nil {
			return err
		}
	}
	return nil
}

type adminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, fullName, passwordHash string) (bool, error)
}

// ensureAdmin creates the configured administrator or promotes the existing
// user with that email.
func ensureAdmin(ctx context.Context, users adminEnsurer, email, password string, logger *zap.Logger) error {
	email = normalize.Email(email)
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	created, err := users.EnsureAdmin(ctx, email, "Administrator", hash)
	if err != nil {
		logger.Error("bootstrap admin failed", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("created bootstrap admin", zap.String("email", email))
	} else {
		logger.Info("bootstrap admin present", zap.String("email", email))
	}
	return nil
}
