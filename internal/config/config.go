package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string
	LogMode  string

	// Chat platform
	BotToken      string
	BotAPIBaseURL string
	WebhookSecret string

	// Remote records backend. Empty means the local snapshot is the only
	// usable data source and preferences live in the sqlite file.
	DatabaseURL   string
	SQLitePath    string
	RemoteTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Audit queue. Empty RabbitURL disables publishing.
	RabbitURL   string
	RabbitQueue string

	SnapshotPath string
	ModelPath    string

	// Operator API
	JWTSecret        string
	OperatorUser     string
	OperatorPassword string
}

func Load() Config {
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "dev"
	}

	botBase := os.Getenv("BOT_API_BASE_URL")
	if botBase == "" {
		botBase = "https://api.telegram.org"
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "users.db"
	}

	remoteTimeout := 5 * time.Second
	if v := os.Getenv("REMOTE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			remoteTimeout = time.Duration(n) * time.Second
		}
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "risk_analyses"
	}

	snapshotPath := os.Getenv("SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = "data/processed/df_mestre_consolidado.csv.gz"
	}

	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = "models/pipeline_random_forest.json"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	operatorUser := os.Getenv("OPERATOR_USER")
	if operatorUser == "" {
		operatorUser = "operator"
	}

	return Config{
		HTTPAddr: httpAddr,
		LogMode:  logMode,

		BotToken:      os.Getenv("TELEGRAM_TOKEN"),
		BotAPIBaseURL: botBase,
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    sqlitePath,
		RemoteTimeout: remoteTimeout,

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,

		SnapshotPath: snapshotPath,
		ModelPath:    modelPath,

		JWTSecret:        secret,
		OperatorUser:     operatorUser,
		OperatorPassword: os.Getenv("OPERATOR_PASSWORD"),
	}
}
