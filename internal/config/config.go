package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Configuration настройки процесса, читаются из окружения и необязательного .env
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":9091"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// memory | mongo | firestore
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"memory"`
	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"dashboard"`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseStorageBucket   string `env:"FIREBASE_STORAGE_BUCKET"`
	FirebaseAPIKey          string `env:"FIREBASE_API_KEY"`

	// local | firebase
	AuthProvider      string        `env:"AUTH_PROVIDER" envDefault:"local"`
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTTTL            time.Duration `env:"JWT_TTL" envDefault:"12h"`
	AdminEmail        string        `env:"ADMIN_EMAIL"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`

	// local | firebase
	BlobBackend    string `env:"BLOB_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:9091"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`

	// memory | redis
	LockBackend   string        `env:"LOCK_BACKEND" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	LockWait      time.Duration `env:"LOCK_WAIT" envDefault:"5s"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// reject | overwrite
	RenameCollision string `env:"RENAME_COLLISION" envDefault:"reject"`
	// orphan | cascade | block
	ReferencePolicy string `env:"REFERENCE_POLICY" envDefault:"orphan"`
	// sequential | batch
	WriteMode   string `env:"WRITE_MODE" envDefault:"sequential"`
	SyncRetries uint64 `env:"SYNC_RETRIES" envDefault:"0"`
}

// Load читает .env файлы (если есть) и окружение
func Load(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unsupported value %q (want one of %v)", name, v, allowed)
}

// Validate проверяет перечислимые значения и обязательные связки
func (c *Configuration) Validate() error {
	errs := []error{
		oneOf("STORE_BACKEND", c.StoreBackend, "memory", "mongo", "firestore"),
		oneOf("AUTH_PROVIDER", c.AuthProvider, "local", "firebase"),
		oneOf("BLOB_BACKEND", c.BlobBackend, "local", "firebase"),
		oneOf("LOCK_BACKEND", c.LockBackend, "memory", "redis"),
		oneOf("RENAME_COLLISION", c.RenameCollision, "reject", "overwrite"),
		oneOf("REFERENCE_POLICY", c.ReferencePolicy, "orphan", "cascade", "block"),
		oneOf("WRITE_MODE", c.WriteMode, "sequential", "batch"),
		oneOf("LOG_FORMAT", c.LogFormat, "text", "json"),
	}
	if c.AuthProvider == "local" && (c.JWTSecret == "" || c.AdminEmail == "" || c.AdminPasswordHash == "") {
		errs = append(errs, errors.New("local auth requires JWT_SECRET, ADMIN_EMAIL and ADMIN_PASSWORD_HASH"))
	}
	if c.BlobBackend == "firebase" && c.FirebaseStorageBucket == "" {
		errs = append(errs, errors.New("firebase blob backend requires FIREBASE_STORAGE_BUCKET"))
	}
	if c.UsesFirebase() && c.FirebaseProjectID == "" {
		errs = append(errs, errors.New("firebase services require FIREBASE_PROJECT_ID"))
	}
	return errors.Join(errs...)
}

// UsesFirebase нужен ли процессу Firebase Admin SDK
func (c *Configuration) UsesFirebase() bool {
	return c.StoreBackend == "firestore" || c.AuthProvider == "firebase" || c.BlobBackend == "firebase"
}
