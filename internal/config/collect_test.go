package config_test

import (
	"testing"

	"github.com/phrazzld/envbase/internal/config"
	"github.com/phrazzld/envbase/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

// TestCollectPrefix verifies that only variables starting with the upper-cased
// prefix are collected, and that the prefix is stripped from their names.
func TestCollectPrefix(t *testing.T) {
	env := config.MapEnviron{
		"REDIS_HOST":        "redis.example.com",
		"REDIS_PORT":        "6380",
		"REDIS_MAX_CLIENTS": "10",
		"POSTGRES_HOST":     "db",
		"redis_lower":       "ignored",
		"XREDIS_HOST":       "ignored",
	}

	tests := []struct {
		name   string
		prefix string
	}{
		{name: "upper-case prefix", prefix: "REDIS_"},
		{name: "lower-case prefix is upper-cased", prefix: "redis_"},
		{name: "mixed-case prefix is upper-cased", prefix: "Redis_"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := config.Collect(config.WithEnviron(env), config.WithPrefix(tc.prefix))

			assert.Equal(t, map[string]string{
				"host":        "redis.example.com",
				"port":        "6380",
				"max_clients": "10",
			}, fields)
		})
	}
}

// TestCollectWithoutPrefix verifies that every variable is collected when no
// prefix is configured.
func TestCollectWithoutPrefix(t *testing.T) {
	env := config.MapEnviron{
		"HOST": "localhost",
		"Path": "/usr/bin",
	}

	fields := config.Collect(config.WithEnviron(env))

	assert.Equal(t, map[string]string{"host": "localhost", "path": "/usr/bin"}, fields)
}

// TestCollectSkipsBarePrefix verifies that a variable named exactly like the
// prefix does not produce a field.
func TestCollectSkipsBarePrefix(t *testing.T) {
	env := config.MapEnviron{"APP_": "x", "APP_NAME": "svc"}

	fields := config.Collect(config.WithEnviron(env), config.WithPrefix("APP_"))

	assert.Equal(t, map[string]string{"name": "svc"}, fields)
}

// TestCollectCustomSeparator verifies that a non-default separator is folded
// to underscores.
func TestCollectCustomSeparator(t *testing.T) {
	env := config.MapEnviron{
		"APP.DB.HOST":     "db.example.com",
		"APP.POOL..SIZE":  "5",
		"APP_SHOULD_SKIP": "x",
	}

	fields := config.Collect(
		config.WithEnviron(env),
		config.WithPrefix("APP."),
		config.WithSeparator("."),
	)

	assert.Equal(t, map[string]string{
		"db_host":    "db.example.com",
		"pool__size": "5",
	}, fields)
}

// TestCollectCollision verifies that colliding names resolve to the
// lexically last variable and that the collision is logged without values.
func TestCollectCollision(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)
	env := config.MapEnviron{
		"HOST": "from-upper",
		"host": "from-lower",
	}

	fields := config.Collect(config.WithEnviron(env), config.WithLogger(log))

	assert.Equal(t, map[string]string{"host": "from-lower"}, fields)
	logger.AssertLogContains(t, logBuf, "environment variables map to the same field")
	logger.AssertLogField(t, logBuf, "ignored", "HOST")
	logger.AssertLogField(t, logBuf, "used", "host")
	assert.NotContains(t, logBuf.String(), "from-upper")
}

// TestCollectDoesNotMutateSource verifies the snapshot is left untouched.
func TestCollectDoesNotMutateSource(t *testing.T) {
	env := config.MapEnviron{"APP_HOST": "h"}

	_ = config.Collect(config.WithEnviron(env), config.WithPrefix("APP_"))

	assert.Equal(t, config.MapEnviron{"APP_HOST": "h"}, env)
}

// TestCollectReadsProcessEnvironment verifies the default source.
func TestCollectReadsProcessEnvironment(t *testing.T) {
	t.Setenv("ENVBASE_COLLECT_HOST", "proc-host")

	fields := config.Collect(config.WithPrefix("ENVBASE_COLLECT_"))

	assert.Equal(t, "proc-host", fields["host"])
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		separator string
		expected  string
	}{
		{name: "default separator", input: "MAX_CONNECTIONS", separator: "_", expected: "max_connections"},
		{name: "empty separator", input: "HOST", separator: "", expected: "host"},
		{name: "dot separator", input: "DB.HOST", separator: ".", expected: "db_host"},
		{name: "dash separator", input: "API-KEY", separator: "-", expected: "api_key"},
		{name: "double separator nests", input: "POOL..MAX.SIZE", separator: ".", expected: "pool__max_size"},
		{name: "empty input", input: "", separator: "_", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, config.FieldName(tc.input, tc.separator))
		})
	}
}

func TestLayeredEnviron(t *testing.T) {
	file := config.MapEnviron{"APP_HOST": "file", "APP_PORT": "1"}
	proc := config.MapEnviron{"APP_PORT": "2"}

	merged := config.Layered{file, nil, proc}.Environ()

	assert.Equal(t, []string{"APP_HOST=file", "APP_PORT=2"}, merged)
}
