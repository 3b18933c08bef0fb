package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	fallback := time.Minute

	assert.Equal(t, 30*24*time.Hour, parseDuration("30d", fallback))
	assert.Equal(t, 15*time.Minute, parseDuration("15m", fallback))
	assert.Equal(t, fallback, parseDuration("", fallback))
	assert.Equal(t, fallback, parseDuration("soon", fallback))
	assert.Equal(t, fallback, parseDuration("-2d", fallback))
}

func TestMergeDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nPORT=5000\nexport MONGO_URI=\"mongodb://db:27017\"\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out := defaultValues()
	require.NoError(t, mergeDotEnv(path, out))

	assert.Equal(t, "5000", out["PORT"])
	assert.Equal(t, "mongodb://db:27017", out["MONGO_URI"])
}

func TestMergeJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rate_limit_enabled": true, "rate_limit_max": 10, "app_env": "production"}`), 0o644))

	out := defaultValues()
	require.NoError(t, mergeJSONConfig(path, out))

	assert.Equal(t, "true", out["RATE_LIMIT_ENABLED"])
	assert.Equal(t, "10", out["RATE_LIMIT_MAX"])
	assert.Equal(t, "production", out["APP_ENV"])
}

func TestTypedHelpers(t *testing.T) {
	Set("TEST_FLAG", "yes-please")
	assert.True(t, Bool("TEST_FLAG", true))

	Set("TEST_FLAG", "false")
	assert.False(t, Bool("TEST_FLAG", true))

	Set("TEST_NUM", "42")
	assert.Equal(t, 42, Int("TEST_NUM", 0))
	assert.Equal(t, int64(42), Int64("TEST_NUM", 0))

	Set("TEST_LIST", " a, ,b ")
	assert.Equal(t, []string{"a", "b"}, List("TEST_LIST", ""))
}
