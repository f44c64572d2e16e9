package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server struct {
		Port        string   `mapstructure:"port"`
		Mode        string   `mapstructure:"mode"` // debug, release, test
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`

	Store struct {
		Driver string `mapstructure:"driver"` // memory, sqlite, postgres, redis
		DSN    string `mapstructure:"dsn"`

		RedisAddr     string `mapstructure:"redis_addr"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
		RedisPrefix   string `mapstructure:"redis_prefix"`
	} `mapstructure:"store"`

	Log struct {
		Level       string `mapstructure:"level"`
		Format      string `mapstructure:"format"`
		Output      string `mapstructure:"output"`
		FilePath    string `mapstructure:"file_path"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`

	Auth struct {
		FallbackEmail    string `mapstructure:"fallback_email"`
		FallbackPassword string `mapstructure:"fallback_password"`
	} `mapstructure:"auth"`

	Integrity struct {
		Enabled      bool   `mapstructure:"enabled"`
		Spec         string `mapstructure:"spec"`
		PruneOrphans bool   `mapstructure:"prune_orphans"`
	} `mapstructure:"integrity"`

	Snapshot struct {
		Enabled   bool   `mapstructure:"enabled"`
		Spec      string `mapstructure:"spec"`
		Provider  string `mapstructure:"provider"` // local, s3
		LocalDir  string `mapstructure:"local_dir"`
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Endpoint  string `mapstructure:"endpoint"`
		BasePath  string `mapstructure:"base_path"`
	} `mapstructure:"snapshot"`
}

// EnvPrefix 环境变量前缀，如 CHANNEL_ADMIN_STORE_DRIVER
const EnvPrefix = "CHANNEL_ADMIN"

var keys = []string{
	"server.port", "server.mode", "server.cors_origins",
	"store.driver", "store.dsn", "store.redis_addr", "store.redis_password", "store.redis_db", "store.redis_prefix",
	"log.level", "log.format", "log.output", "log.file_path", "log.development",
	"auth.fallback_email", "auth.fallback_password",
	"integrity.enabled", "integrity.spec", "integrity.prune_orphans",
	"snapshot.enabled", "snapshot.spec", "snapshot.provider", "snapshot.local_dir", "snapshot.bucket",
	"snapshot.region", "snapshot.access_key", "snapshot.secret_key", "snapshot.endpoint", "snapshot.base_path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "channel_admin.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_prefix", "channel_admin:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("auth.fallback_email", "admin@example.com")
	v.SetDefault("auth.fallback_password", "password123")

	v.SetDefault("integrity.enabled", true)
	v.SetDefault("integrity.spec", "0 */30 * * * *")
	v.SetDefault("integrity.prune_orphans", false)

	v.SetDefault("snapshot.enabled", false)
	v.SetDefault("snapshot.spec", "0 0 3 * * *")
	v.SetDefault("snapshot.provider", "local")
	v.SetDefault("snapshot.local_dir", "./snapshots")
	v.SetDefault("snapshot.base_path", "channel-admin")
}

// Load 读取配置：默认值 < config.yaml < 环境变量
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "../"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键配置
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "redis":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn 不能为空 (driver=%s)", c.Store.Driver)
		}
	default:
		return fmt.Errorf("不支持的存储驱动: %s", c.Store.Driver)
	}

	if c.Snapshot.Enabled && c.Snapshot.Provider == "s3" && c.Snapshot.Bucket == "" {
		return errors.New("snapshot.bucket 不能为空 (provider=s3)")
	}
	return nil
}
