package fancache

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.RedisHost != "127.0.0.1" || cfg.RedisPort != 6379 {
		t.Fatalf("redis defaults: %s:%d", cfg.RedisHost, cfg.RedisPort)
	}
	if cfg.ConnectTimeout != 3*time.Second || cfg.CommandTimeout != 2*time.Second {
		t.Fatalf("timeout defaults: %v / %v", cfg.ConnectTimeout, cfg.CommandTimeout)
	}
	if cfg.MaxRetries != 3 || cfg.LocalMaxSize != 1000 || cfg.LocalTTL != 30*time.Second {
		t.Fatalf("defaults: retries=%d local=%d ttl=%v", cfg.MaxRetries, cfg.LocalMaxSize, cfg.LocalTTL)
	}
	if cfg.CompressMin != 1024 || cfg.KeyPrefix != "fc:" {
		t.Fatalf("defaults: compress=%d prefix=%q", cfg.CompressMin, cfg.KeyPrefix)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_KEY_PREFIX", "fan:prod:")
	t.Setenv("CACHE_CONNECT_TIMEOUT", "5s")
	t.Setenv("CACHE_LOCAL_MAX_SIZE", "250")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	rc := cfg.RemoteConfig()
	if rc.Host != "cache.internal" || rc.Port != 6380 || rc.Password != "hunter2" || rc.DB != 3 {
		t.Fatalf("RemoteConfig: %+v", rc)
	}
	if rc.KeyPrefix != "fan:prod:" || rc.ConnectTimeout != 5*time.Second {
		t.Fatalf("RemoteConfig: prefix=%q timeout=%v", rc.KeyPrefix, rc.ConnectTimeout)
	}

	lc := cfg.LocalConfig()
	if lc.MaxSize != 250 || lc.TTL != 30*time.Second {
		t.Fatalf("LocalConfig: %+v", lc)
	}
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected parse error")
	}
}
