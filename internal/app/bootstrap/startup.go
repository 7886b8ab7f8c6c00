// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/brunocaldas/portfoliohub/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Unlike ConnectDB and
// EnsureSchema which focus on infrastructure, Startup is for application-level
// initialization.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. Returning nil signals that initialization succeeded.
//
// The context will be cancelled if the process is asked to shut down while
// Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Note: Indexes are created in EnsureSchema via indexes.EnsureAll().
	// Store-level EnsureIndexes() calls are not needed here.

	// Start background task runner
	startTaskRunner(deps.MongoDatabase, appCfg, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Register cleanup jobs. The TTL indexes are the backstop; these jobs
	// keep the collections tidy between TTL monitor passes.
	taskRunner.Register(tasks.SessionCleanupJob(db, logger))
	taskRunner.Register(tasks.OAuthStateCleanupJob(db, logger))
	taskRunner.Register(tasks.RateLimitCleanupJob(db, logger, appCfg.RateLimitWindow))

	// Start running jobs
	taskRunner.Start()
}
