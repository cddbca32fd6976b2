package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save current env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i := 0; i < len(env); i++ {
				if env[i] == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "taskdeck", cfg.Database.Database)
				assert.Equal(t, time.Minute, cfg.Scheduler.CheckInterval)
				assert.Equal(t, "taskdeck:triggers", cfg.Scheduler.QueueKey)
				assert.True(t, cfg.Scheduler.Enabled)
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"SERVER_PORT":              "9000",
				"DB_HOST":                  "db.example.com",
				"DB_NAME":                  "custom_db",
				"REDIS_HOST":               "redis.example.com",
				"LOG_LEVEL":                "debug",
				"APP_ENV":                  "production",
				"JWT_SECRET":               "s3cret",
				"SCHEDULER_CHECK_INTERVAL": "30s",
				"ALLOWED_ORIGINS":          "https://console.example.com, https://staging.example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, "custom_db", cfg.Database.Database)
				assert.Equal(t, "redis.example.com", cfg.Redis.Host)
				assert.Equal(t, "debug", cfg.Logger.Level)
				assert.Equal(t, "production", cfg.App.Environment)
				assert.Equal(t, 30*time.Second, cfg.Scheduler.CheckInterval)
				assert.Equal(t, []string{"https://console.example.com", "https://staging.example.com"}, cfg.Server.AllowedOrigins)
			},
		},
		{
			name: "invalid port",
			env: map[string]string{
				"SERVER_PORT": "99999",
			},
			wantErr: true,
		},
		{
			name: "production requires a jwt secret",
			env: map[string]string{
				"APP_ENV": "production",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Database: DatabaseConfig{
				Host:     "localhost",
				Database: "taskdeck",
			},
			Redis: RedisConfig{Host: "localhost"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database host is required",
		},
		{
			name:    "missing database name",
			mutate:  func(c *Config) { c.Database.Database = "" },
			wantErr: "database name is required",
		},
		{
			name:    "missing redis host",
			mutate:  func(c *Config) { c.Redis.Host = "" },
			wantErr: "redis host is required",
		},
		{
			name:    "production without jwt secret",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			wantErr: "JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.example.com",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			Database: "testdb",
			SSLMode:  "require",
		},
	}

	dsn := cfg.DatabaseDSN()

	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=testuser")
	assert.Contains(t, dsn, "dbname=testdb")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestConfig_RedisAddr(t *testing.T) {
	cfg := &Config{
		Redis: RedisConfig{
			Host: "redis.example.com",
			Port: 6379,
		},
	}

	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr())
}
