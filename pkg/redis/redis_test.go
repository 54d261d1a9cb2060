package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Amen1235f/ecommerce-cms/pkg/config"
)

// getTestConfig returns config for testing
func getTestConfig() *Config {
	cfg := DefaultConfig()

	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}

	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", cfg.Host)
	}
	if cfg.Port != 6379 {
		t.Errorf("Expected port 6379, got %d", cfg.Port)
	}
	if cfg.PoolSize != 50 {
		t.Errorf("Expected pool size 50, got %d", cfg.PoolSize)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Expected max retries 3, got %d", cfg.MaxRetries)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.RedisConfig{
		Host:     "cache",
		Port:     6380,
		Password: "pw",
		DB:       2,
		PoolSize: 7,
	})

	if cfg.Addr() != "cache:6380" {
		t.Errorf("Expected addr 'cache:6380', got '%s'", cfg.Addr())
	}
	if cfg.DB != 2 || cfg.Password != "pw" {
		t.Errorf("Expected db 2 with password, got db %d", cfg.DB)
	}
	if cfg.PoolSize != 7 {
		t.Errorf("Expected pool size 7, got %d", cfg.PoolSize)
	}
	// zero values keep defaults
	if cfg.DialTimeout != 5*time.Second {
		t.Errorf("Expected default dial timeout, got %s", cfg.DialTimeout)
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := &Config{
		Host:          "invalid-host-that-does-not-exist",
		Port:          9999,
		MaxRetries:    0,
		RetryInterval: 100 * time.Millisecond,
		DialTimeout:   500 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, cfg)
	if err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
}

func TestScriptSHA(t *testing.T) {
	sha := scriptSHA("return 1")

	// digest of "return 1" as reported by SCRIPT LOAD
	if sha != "e0e1f9fabfc9d4800c877a703b823ac0578ff8db" {
		t.Errorf("Unexpected digest %s", sha)
	}
	if sha != scriptSHA("return 1") {
		t.Error("Same script should produce same SHA")
	}
	if sha == scriptSHA("return 2") {
		t.Error("Different scripts should produce different SHAs")
	}
}

func TestIsNoScriptError(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{fmt.Errorf("some error"), false},
		{fmt.Errorf("NOSCRIPT No matching script. Please use EVAL."), true},
		{fmt.Errorf("NOSCRIPT some other message"), true},
	}

	for _, tt := range tests {
		result := isNoScriptError(tt.err)
		if result != tt.expected {
			t.Errorf("isNoScriptError(%v) = %v, want %v", tt.err, result, tt.expected)
		}
	}
}

// Integration tests - require Redis to be running

func TestClient_BasicOperations_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestConfig())
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	testKey := "test:key:" + time.Now().Format("20060102150405")

	if err := client.Set(ctx, testKey, "test_value", time.Minute); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	val, err := client.Get(ctx, testKey)
	if err != nil {
		t.Errorf("Get failed: %v", err)
	}
	if string(val) != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", val)
	}

	if err := client.Del(ctx, testKey); err != nil {
		t.Errorf("Del failed: %v", err)
	}

	if _, err := client.Get(ctx, testKey); !errors.Is(err, Nil) {
		t.Errorf("Expected Nil after delete, got %v", err)
	}
}

func TestClient_EvalScript_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestConfig())
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer client.Close()

	script := `return tonumber(ARGV[1]) * 2`

	// first call falls back to EVAL, which also caches the script server side
	result, err := client.EvalScript(ctx, "test_double", script, nil, 7).Int()
	if err != nil {
		t.Errorf("EvalScript failed: %v", err)
	}
	if result != 14 {
		t.Errorf("Expected result 14, got %d", result)
	}

	result, err = client.EvalScript(ctx, "test_double", script, nil, 10).Int()
	if err != nil {
		t.Errorf("Second EvalScript failed: %v", err)
	}
	if result != 20 {
		t.Errorf("Expected result 20, got %d", result)
	}
}
