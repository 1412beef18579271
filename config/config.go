package config

import (
	"flag"
	"os"
	"strconv"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory     = "memory"
	BackendFilesystem = "filesystem"
	BackendRedis      = "redis"
	BackendMongo      = "mongodb"
	BackendDynamo     = "dynamodb"
)

// Config holds all configuration for the paste service
type Config struct {
	Port     int    `json:"port"`
	URL      string `json:"url"`
	IDLength int    `json:"id_length"`
	Backend  string `json:"backend"`

	DataDir      string `json:"data_dir"`
	RedisURL     string `json:"redis_url"`
	MongoURL     string `json:"mongo_url"`
	MongoDB      string `json:"mongo_db"`
	DynamoTable  string `json:"dynamo_table"`
	DynamoRegion string `json:"dynamo_region"`

	// TestMode allows requests to pin the clock via the X-Test-Now-Ms
	// header. Never enable in production.
	TestMode bool `json:"test_mode"`

	Version    string `json:"version"`
	BuildTime  string `json:"build_time"`
	CommitHash string `json:"commit_hash"`
}

// LoadConfig loads configuration from CLI flags and PASTE_* environment
// variables. Environment variables override flags.
func LoadConfig() *Config {
	config := &Config{
		Port:         8080,
		URL:          "",
		IDLength:     10,
		Backend:      BackendMemory,
		DataDir:      "./data",
		RedisURL:     "",
		MongoURL:     "",
		MongoDB:      "pastebin",
		DynamoTable:  "",
		DynamoRegion: "us-east-1",
	}

	flag.IntVar(&config.Port, "port", config.Port, "Port to listen on")
	flag.StringVar(&config.URL, "url", config.URL, "Base URL for paste links")
	flag.IntVar(&config.IDLength, "id-length", config.IDLength, "Length of generated paste IDs")
	flag.StringVar(&config.Backend, "backend", config.Backend, "Storage backend: memory, filesystem, redis, mongodb, dynamodb")
	flag.StringVar(&config.DataDir, "data-dir", config.DataDir, "Data directory for the filesystem backend")
	flag.StringVar(&config.RedisURL, "redis-url", config.RedisURL, "Redis connection URL")
	flag.StringVar(&config.MongoURL, "mongo-url", config.MongoURL, "MongoDB connection URL")
	flag.StringVar(&config.MongoDB, "mongo-db", config.MongoDB, "MongoDB database name")
	flag.StringVar(&config.DynamoTable, "dynamo-table", config.DynamoTable, "DynamoDB table name")
	flag.StringVar(&config.DynamoRegion, "dynamo-region", config.DynamoRegion, "DynamoDB region")
	flag.BoolVar(&config.TestMode, "test-mode", config.TestMode, "Allow the X-Test-Now-Ms clock override header")
	flag.Parse()

	ApplyEnv(config)
	return config
}

// ApplyEnv overrides config fields from PASTE_* environment variables.
// Split out from LoadConfig so tests can exercise it without flag.Parse.
func ApplyEnv(config *Config) {
	if val := os.Getenv("PASTE_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Port = port
		}
	}
	if val := os.Getenv("PASTE_URL"); val != "" {
		config.URL = val
	}
	if val := os.Getenv("PASTE_ID_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.IDLength = length
		}
	}
	if val := os.Getenv("PASTE_BACKEND"); val != "" {
		config.Backend = val
	}
	if val := os.Getenv("PASTE_DATA_DIR"); val != "" {
		config.DataDir = val
	}
	if val := os.Getenv("PASTE_REDIS_URL"); val != "" {
		config.RedisURL = val
	}
	if val := os.Getenv("PASTE_MONGO_URL"); val != "" {
		config.MongoURL = val
	}
	if val := os.Getenv("PASTE_MONGO_DB"); val != "" {
		config.MongoDB = val
	}
	if val := os.Getenv("PASTE_DYNAMO_TABLE"); val != "" {
		config.DynamoTable = val
	}
	if val := os.Getenv("PASTE_DYNAMO_REGION"); val != "" {
		config.DynamoRegion = val
	}
	if val := os.Getenv("PASTE_TEST_MODE"); val != "" {
		config.TestMode = val == "1" || val == "true"
	}
}
