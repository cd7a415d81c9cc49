package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Retrieval RetrievalConfig
	Wiki      WikiConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	PoolMaxConns int32
	PoolMinConns int32
	ConnIdleTime time.Duration
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// RetrievalConfig holds the engine granularity and its tunable thresholds.
// Defaults are the production-tuned values; they are environment variables
// rather than constants baked into the engine.
type RetrievalConfig struct {
	Mode              string  // "document" or "paragraph"
	DocumentThreshold int     // minimum whole-document score before answering
	ParagraphFloor    int     // minimum paragraph score to stay a candidate
	DynamicRatio      float64 // dynamic threshold = DynamicRatio * top score
	DiversityRatio    float64 // score ratio that lifts the per-source cap
	SourceCap         int     // max paragraphs selected per source document
	MaxParagraphs     int     // max paragraphs joined into one answer
	EchoMaxLen        int     // rune length under which a lead paragraph is echo-checked
}

type WikiConfig struct {
	Language         string
	FallbackLanguage string
	Timeout          time.Duration
	SummaryMaxLen    int
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or the project root.
	// Absence is fine: plain environment variables work for Docker/K8s.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))

	docThreshold, _ := strconv.Atoi(getEnv("RETRIEVAL_DOC_THRESHOLD", "8"))
	paraFloor, _ := strconv.Atoi(getEnv("RETRIEVAL_PARAGRAPH_FLOOR", "3"))
	dynamicRatio, _ := strconv.ParseFloat(getEnv("RETRIEVAL_DYNAMIC_RATIO", "0.6"), 64)
	diversityRatio, _ := strconv.ParseFloat(getEnv("RETRIEVAL_DIVERSITY_RATIO", "0.8"), 64)
	sourceCap, _ := strconv.Atoi(getEnv("RETRIEVAL_SOURCE_CAP", "2"))
	maxParagraphs, _ := strconv.Atoi(getEnv("RETRIEVAL_MAX_PARAGRAPHS", "4"))
	echoMaxLen, _ := strconv.Atoi(getEnv("RETRIEVAL_ECHO_MAX_LEN", "50"))

	poolMaxConns, _ := strconv.Atoi(getEnv("DB_POOL_MAX_CONNS", "10"))
	poolMinConns, _ := strconv.Atoi(getEnv("DB_POOL_MIN_CONNS", "2"))
	connIdleMinutes, _ := strconv.Atoi(getEnv("DB_CONN_IDLE_MINUTES", "5"))

	wikiTimeout, _ := strconv.Atoi(getEnv("WIKI_TIMEOUT_SECONDS", "5"))
	summaryMaxLen, _ := strconv.Atoi(getEnv("WIKI_SUMMARY_MAX_LEN", "600"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "kbchat"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			PoolMaxConns: int32(poolMaxConns),
			PoolMinConns: int32(poolMinConns),
			ConnIdleTime: time.Duration(connIdleMinutes) * time.Minute,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Retrieval: RetrievalConfig{
			Mode:              getEnv("RETRIEVAL_MODE", "paragraph"),
			DocumentThreshold: docThreshold,
			ParagraphFloor:    paraFloor,
			DynamicRatio:      dynamicRatio,
			DiversityRatio:    diversityRatio,
			SourceCap:         sourceCap,
			MaxParagraphs:     maxParagraphs,
			EchoMaxLen:        echoMaxLen,
		},
		Wiki: WikiConfig{
			Language:         getEnv("WIKI_LANGUAGE", "vi"),
			FallbackLanguage: getEnv("WIKI_FALLBACK_LANGUAGE", "en"),
			Timeout:          time.Duration(wikiTimeout) * time.Second,
			SummaryMaxLen:    summaryMaxLen,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
