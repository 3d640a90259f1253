package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JudgeURL            string
	JudgeAPIKey         string
	JudgeTimeout        time.Duration
	JudgeMaxConcurrency int
	JudgeLanguages      map[string]int // overrides merged over the built-in registry

	GeneratorURL     string
	GeneratorTimeout time.Duration

	ProblemStoreBackend string // "memory" or "redis"
	ProblemTTL          time.Duration
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "codeprep_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JudgeURL:            getEnv("JUDGE_URL", "http://localhost:2358"),
		JudgeAPIKey:         getEnv("JUDGE_API_KEY", ""),
		JudgeTimeout:        time.Duration(getEnvAsInt("JUDGE_TIMEOUT_SECONDS", 10)) * time.Second,
		JudgeMaxConcurrency: getEnvAsInt("JUDGE_MAX_CONCURRENCY", 8),
		JudgeLanguages:      getEnvAsIntMap("JUDGE_LANGUAGES"),

		GeneratorURL:     getEnv("GENERATOR_URL", "http://localhost:8000/generate"),
		GeneratorTimeout: time.Duration(getEnvAsInt("GENERATOR_TIMEOUT_SECONDS", 60)) * time.Second,

		ProblemStoreBackend: getEnv("PROBLEM_STORE", "memory"),
		ProblemTTL:          time.Duration(getEnvAsInt("PROBLEM_TTL_MINUTES", 120)) * time.Minute,
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsIntMap parses a JSON object of language name -> backend id,
// e.g. {"rust": 73, "go": 60}.
func getEnvAsIntMap(key string) map[string]int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	m := map[string]int{}
	if err := json.Unmarshal([]byte(valueStr), &m); err != nil {
		log.Printf("Ignoring malformed %s: %v", key, err)
		return nil
	}
	return m
}
