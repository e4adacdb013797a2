// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"strings"

	teacherstore "github.com/dalemusser/campushub/internal/app/store/teacher"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CampusHub uses it to provision the teacher accounts named in the
// seed_teachers config value; without at least one teacher the
// authenticated announcement operations are unreachable on a fresh
// database.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return seedTeachers(ctx, deps, appCfg.SeedTeachers, logger)
}

// seedTeachers upserts each configured teacher account. Idempotent: an
// existing account keeps its created_at and only the display name is
// refreshed.
func seedTeachers(ctx context.Context, deps DBDeps, spec string, logger *zap.Logger) error {
	teachers := parseSeedTeachers(spec)
	if len(teachers) == 0 {
		return nil
	}

	store := teacherstore.New(deps.CampusHubMongoDatabase)
	for _, t := range teachers {
		if err := store.Upsert(ctx, t); err != nil {
			logger.Error("teacher seeding failed",
				zap.String("username", t.Username),
				zap.Error(err))
			return err
		}
		logger.Info("ensured teacher account",
			zap.String("username", t.Username))
	}
	return nil
}

// parseSeedTeachers splits a comma-separated list of "username" or
// "username:Display Name" entries. Blank entries are skipped.
func parseSeedTeachers(spec string) []models.Teacher {
	var out []models.Teacher
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		username, display, _ := strings.Cut(entry, ":")
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		out = append(out, models.Teacher{
			Username:    username,
			DisplayName: strings.TrimSpace(display),
		})
	}
	return out
}
