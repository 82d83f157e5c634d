// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/go-redis/redis/v8"
	dynamostore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/dynamo"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends opened in ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Board is what the Board Service reads and writes. Staff may be the
	// Redis cache wrapped around StaffWriter's backend.
	Board         whiteboard.Backend
	StaffWriter   whiteboard.StaffWriter
	HistoryReader whiteboard.HistoryReader

	Dynamo *dynamostore.Store // set when store_backend is dynamodb
	Redis  *redis.Client      // set when redis_addr is configured
}
