package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic application metadata.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // "development" or "production"
}

// ServerConfig holds the listen addresses for the individual services.
type ServerConfig struct {
	ChatbotAddress   string `yaml:"chatbotAddress"`
	AuthAddress      string `yaml:"authAddress"`
	AnalyticsAddress string `yaml:"analyticsAddress"`
}

// LoggerConfig configures the structured logger.
type LoggerConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// AuthConfig configures token issuance for the auth service.
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"`
	TokenTTL  int    `yaml:"tokenTTL"` // access token lifetime in seconds
}

// MySQLConfig holds the MySQL connection settings.
type MySQLConfig struct {
	Address         string `yaml:"address"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxOpenConns    int    `yaml:"maxOpenConns"`
	MaxIdleConns    int    `yaml:"maxIdleConns"`
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // seconds
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig holds the Kafka broker settings for the analytics event stream.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"groupID"`
}

// DatabaseConfigs groups all backing-store configurations.
type DatabaseConfigs struct {
	MySQL MySQLConfig `yaml:"mysql"`
	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`
}

// ModelConfig describes a single hosted model endpoint.
type ModelConfig struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
}

// LLMConfig selects and configures the generation model provider.
type LLMConfig struct {
	Provider string      `yaml:"provider"` // "gemini", "ollama", "openai"
	Gemini   ModelConfig `yaml:"gemini"`
	Ollama   ModelConfig `yaml:"ollama"`
	OpenAI   ModelConfig `yaml:"openai"`
	Timeout  int         `yaml:"timeout"`    // generation timeout in seconds
	MaxRetries int       `yaml:"maxRetries"` // bounded retries on transient failure
}

// EmbeddingConfig selects and configures the embedding model provider.
type EmbeddingConfig struct {
	Provider    string      `yaml:"provider"` // "ollama", "openai", "huggingface"
	Ollama      ModelConfig `yaml:"ollama"`
	OpenAI      ModelConfig `yaml:"openai"`
	HuggingFace ModelConfig `yaml:"huggingface"`
}

// RAGConfig tunes the retrieval pipeline.
type RAGConfig struct {
	SnapshotDir   string `yaml:"snapshotDir"`   // root directory for vector snapshots
	ChunkSize     int    `yaml:"chunkSize"`     // character window size, default 500
	TopK          int    `yaml:"topK"`          // neighbors retrieved per question, default 3
	MaxCrawlPages int    `yaml:"maxCrawlPages"` // page limit for the website crawler
	MemoryBackend string `yaml:"memoryBackend"` // "memory" or "redis"
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App       AppInfo         `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RAG       RAGConfig       `yaml:"rag"`
	Databases DatabaseConfigs `yaml:"databases"`
}

// LoadConfig reads and parses the YAML configuration file at path, then
// applies defaults for optional retrieval settings.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file '%s': %w", path, err)
	}

	// Secrets are referenced as ${VAR} in the file and resolved from the
	// environment.
	expanded := os.ExpandEnv(string(yamlFile))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.MaxCrawlPages <= 0 {
		cfg.RAG.MaxCrawlPages = 10
	}
	if cfg.RAG.SnapshotDir == "" {
		cfg.RAG.SnapshotDir = "vector_db"
	}
	if cfg.RAG.MemoryBackend == "" {
		cfg.RAG.MemoryBackend = "memory"
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 60
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 3600
	}
}
