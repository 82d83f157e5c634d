// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/go-redis/redis/v8"
	assignments "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/assignments"
	boardstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/board"
	dynamostore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/dynamo"
	hospitals "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/hospitals"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/memory"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/oauthstate"
	staff "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/staff"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/staffcache"
	userstore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/users"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB (always; it holds the directory), the configured
// board backend, and Redis when a cache address is set.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return deps, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return deps, fmt.Errorf("ping mongo: %w", err)
	}
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	switch appCfg.StoreBackend {
	case backendDynamo:
		ds, err := dynamostore.New(ctx, dynamostore.Config{
			Region:       appCfg.DynamoRegion,
			Endpoint:     appCfg.DynamoEndpoint,
			BoardTable:   appCfg.DynamoBoardTable,
			StaffTable:   appCfg.DynamoStaffTable,
			HistoryTable: appCfg.DynamoHistoryTable,
		})
		if err != nil {
			_ = client.Disconnect(context.Background())
			return deps, fmt.Errorf("dynamodb: %w", err)
		}
		deps.Dynamo = ds
		deps.Board = ds.Backend()
		deps.StaffWriter = ds
		deps.HistoryReader = ds
	case backendMemory:
		mem := memory.New()
		deps.Board = mem.Backend()
		deps.StaffWriter = mem
		deps.HistoryReader = mem
		logger.Warn("board data is held in memory and lost on restart")
	default:
		useMongoBoard(&deps)
	}
	logger.Info("board backend ready", zap.String("store_backend", appCfg.StoreBackend))

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		// The cache falls through on errors, so an unreachable Redis only warns.
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable; staff cache will fall through", zap.Error(err))
		}
		deps.Redis = rdb
		deps.Board.Staff = staffcache.New(deps.Board.Staff, staffcache.NewRedisKV(rdb), appCfg.StaffCacheTTL, logger)
		logger.Info("staff cache enabled", zap.String("addr", appCfg.RedisAddr), zap.Duration("ttl", appCfg.StaffCacheTTL))
	}

	return deps, nil
}

// useMongoBoard backs the board with the staff, whiteboard and
// room_assignments collections of deps.MongoDatabase.
func useMongoBoard(deps *DBDeps) {
	st := staff.New(deps.MongoDatabase)
	hist := assignments.New(deps.MongoDatabase)
	deps.Board = whiteboard.Backend{
		Staff:   st,
		Board:   boardstore.New(deps.MongoDatabase),
		History: hist,
	}
	deps.StaffWriter = st
	deps.HistoryReader = hist
}

type indexStep struct {
	name string
	fn   func(context.Context) error
}

// EnsureSchema creates Mongo indexes and, for DynamoDB, any missing tables.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	steps := []indexStep{
		{"users", userstore.New(db).EnsureIndexes},
		{"hospitals", hospitals.New(db).EnsureIndexes},
		{"oauth_states", oauthstate.New(db).EnsureIndexes},
	}
	if appCfg.StoreBackend == backendMongo {
		steps = append(steps,
			indexStep{"staff", staff.New(db).EnsureIndexes},
			indexStep{"whiteboard", boardstore.New(db).EnsureIndexes},
			indexStep{"room_assignments", assignments.New(db).EnsureIndexes},
		)
	}

	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", s.name), zap.Error(err))
			return fmt.Errorf("indexes for %s: %w", s.name, err)
		}
	}

	if deps.Dynamo != nil {
		if err := deps.Dynamo.EnsureTables(ctx); err != nil {
			logger.Error("ensure dynamodb tables failed", zap.Error(err))
			return fmt.Errorf("dynamodb tables: %w", err)
		}
	}

	logger.Info("schema ready")
	return nil
}
