package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "skate-fantasy-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "skate-fantasy-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_StagingAlias(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvStage {
		t.Fatalf("expected AppEnv=%s, got %s", EnvStage, cfg.AppEnv)
	}
	if cfg.SeedDemoData {
		t.Fatalf("expected demo seed off outside dev")
	}
}

func TestLoad_StorageAndCacheDrivers(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory || cfg.CacheDriver != CacheMemory {
			t.Fatalf("unexpected drivers: storage=%s cache=%s", cfg.StorageDriver, cfg.CacheDriver)
		}
		if !cfg.CacheEnabled || cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
		}
		if cfg.DBMaxOpenConns != 20 || cfg.AggregationWorkers != 8 || cfg.NotifyWorkers != 4 {
			t.Fatalf("unexpected pool defaults: %+v", cfg)
		}
		if !cfg.SeedDemoData {
			t.Fatalf("expected demo seed on in dev")
		}
	})

	t.Run("postgres and redis", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "Postgres")
		t.Setenv("CACHE_DRIVER", "redis")
		t.Setenv("REDIS_URL", "redis://cache:6379/1")
		t.Setenv("CACHE_TTL", "2m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres || cfg.CacheDriver != CacheRedis {
			t.Fatalf("unexpected drivers: storage=%s cache=%s", cfg.StorageDriver, cfg.CacheDriver)
		}
		if cfg.RedisURL != "redis://cache:6379/1" || cfg.CacheTTL != 2*time.Minute {
			t.Fatalf("unexpected redis config: %s %s", cfg.RedisURL, cfg.CacheTTL)
		}
	})

	t.Run("invalid storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("invalid cache ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-positive CACHE_TTL")
		}
	})

	t.Run("workers must be positive", func(t *testing.T) {
		t.Setenv("AGGREGATION_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for AGGREGATION_WORKERS=0")
		}
	})
}

func TestLoad_CircuitBreakerParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "30s")
	t.Setenv("NOTIFY_WEBHOOK_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.AnubisCircuit.Enabled || cfg.AnubisCircuit.FailureThreshold != 3 || cfg.AnubisCircuit.OpenTimeout != 30*time.Second {
		t.Fatalf("unexpected anubis circuit: %+v", cfg.AnubisCircuit)
	}
	if cfg.AnubisCircuit.HalfOpenMaxReq != 2 {
		t.Fatalf("expected default half-open max 2, got %d", cfg.AnubisCircuit.HalfOpenMaxReq)
	}
	if cfg.NotifyWebhookCircuit.Enabled {
		t.Fatalf("expected webhook circuit disabled")
	}

	t.Setenv("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ=0")
	}
}

func TestLoad_NotifyWebhookRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("NOTIFY_WEBHOOK_ENABLED", "true")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_WEBHOOK_ENABLED=true without NOTIFY_WEBHOOK_URL")
	}

	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/skate")
	t.Setenv("NOTIFY_WEBHOOK_TOKEN", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotifyWebhookURL != "https://hooks.example.com/skate" || cfg.NotifyWebhookToken != "secret" {
		t.Fatalf("unexpected webhook config: %+v", cfg)
	}
	if cfg.NotifyWebhookTimeout != 5*time.Second {
		t.Fatalf("unexpected webhook timeout: %s", cfg.NotifyWebhookTimeout)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}
