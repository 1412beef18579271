package storage

import (
	"fmt"
	"log"

	"github.com/sumitjhk/Pastebin-Lite/config"
)

// NewStore creates a storage backend based on the configuration
func NewStore(cfg *config.Config) (RecordStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Println("Using in-memory storage")
		return NewMemoryStore(), nil

	case config.BackendFilesystem:
		log.Printf("Using filesystem storage in %s", cfg.DataDir)
		return NewFilesystemStore(cfg.DataDir)

	case config.BackendRedis:
		log.Println("Using Redis storage")
		return NewRedisStore(cfg.RedisURL)

	case config.BackendMongo:
		log.Printf("Using MongoDB storage, database %s", cfg.MongoDB)
		return NewMongoStore(cfg.MongoURL, cfg.MongoDB)

	case config.BackendDynamo:
		log.Printf("Using DynamoDB storage, table %s", cfg.DynamoTable)
		return NewDynamoStore(cfg.DynamoTable, cfg.DynamoRegion)

	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: memory, filesystem, redis, mongodb, dynamodb)", cfg.Backend)
	}
}
