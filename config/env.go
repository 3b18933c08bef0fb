package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort          = "3000"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "iax-rolex"
	defaultRedisAddr     = "localhost:6379"
	defaultJWTSecret     = "change-me-in-production"
	defaultJWTLifetime   = "720h"
	defaultAppEnv        = "local"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json, then .env, then the process environment over
// the built-in defaults. It only reads the files once.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"PORT":                defaultPort,
		"MONGO_URI":           defaultMongoURI,
		"MONGO_DB":            defaultMongoDatabase,
		"REDIS_ADDR":          defaultRedisAddr,
		"REDIS_PASSWORD":      "",
		"JWT_SECRET":          defaultJWTSecret,
		"JWT_LIFETIME":        defaultJWTLifetime,
		"APP_ENV":             defaultAppEnv,
		"SECURITY_HEADERS":    "true",
		"RATE_LIMIT_ENABLED":  "false",
		"RATE_LIMIT_MAX":      "100",
		"RATE_LIMIT_WINDOW":   "15m",
		"RATE_LIMIT_STORE":    "memory",
		"SERVE_UPLOADS":       "true",
		"PUBLIC_DIR":          "public",
		"TRUST_PROXY":         "true",
		"CORS_ORIGINS":        "*",
		"METRICS_ENABLED":     "true",
		"GRAPHQL_ENABLED":     "true",
		"ADMIN_GUARD_WATCHES": "true",
		"MAX_UPLOAD_BYTES":    "5242880",
		"MAX_BODY_BYTES":      "1048576",
		"LOG_MONGO":           "false",
		"STORE_DRIVER":        "mongo",
	}
}

func Port() string {
	_ = Load()
	return get("PORT", defaultPort)
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDatabase)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// JWTLifetime accepts Go durations ("720h") or a day count ("30d").
func JWTLifetime() time.Duration {
	_ = Load()
	return Duration("JWT_LIFETIME", 30*24*time.Hour)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// StoreDriver is "mongo" or "memory".
func StoreDriver() string {
	_ = Load()
	return strings.ToLower(get("STORE_DRIVER", "mongo"))
}

// GRPCPort is empty unless the health server should run.
func GRPCPort() string {
	_ = Load()
	return get("GRPC_PORT", "")
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", "uploads")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3Prefix() string   { _ = Load(); return get("S3_PREFIX", "uploads") }

// ── Typed helpers ────────────────────────────────────────────────────────────

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Bool reads a boolean flag. Unparseable values yield fallback.
func Bool(key string, fallback bool) bool {
	_ = Load()
	v, err := strconv.ParseBool(get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// Int reads an integer setting. Unparseable values yield fallback.
func Int(key string, fallback int) int {
	_ = Load()
	v, err := strconv.Atoi(get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// Int64 reads an int64 setting. Unparseable values yield fallback.
func Int64(key string, fallback int64) int64 {
	_ = Load()
	v, err := strconv.ParseInt(get(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// Duration reads a time.Duration. A trailing "d" is read as days.
func Duration(key string, fallback time.Duration) time.Duration {
	_ = Load()
	return parseDuration(get(key, ""), fallback)
}

// List splits a comma separated setting, dropping empty entries.
func List(key, fallback string) []string {
	_ = Load()
	var out []string
	for _, p := range strings.Split(get(key, fallback), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Set overrides a key at runtime. Tests use it to flip flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	if strings.HasSuffix(raw, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
		if err != nil || days < 0 {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeEnviron(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case bool, float64:
			s = fmt.Sprint(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

// mergeEnviron lets the process environment win over both files, which is
// how PORT and MONGO_URI are supplied in deployment.
func mergeEnviron(out map[string]string) {
	for _, kv := range os.Environ() {
		idx := strings.IndexByte(kv, '=')
		if idx <= 0 {
			continue
		}
		key := kv[:idx]
		if _, known := out[key]; known || isAppKey(key) {
			out[key] = kv[idx+1:]
		}
	}
}

func isAppKey(key string) bool {
	for _, prefix := range []string{"S3_", "STORAGE_", "GRPC_", "MONGO_", "REDIS_", "JWT_"} {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}
