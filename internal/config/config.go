package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Notification NotificationConfig `mapstructure:"notification"`
	Time         TimeConfig         `mapstructure:"time"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NotificationConfig 通知批处理与邮件发送相关配置
type NotificationConfig struct {
	APIKey           string `mapstructure:"api_key"`             // /notifications/send 的 X-API-Key
	ResendAPIKey     string `mapstructure:"resend_api_key"`      // Resend 邮件服务密钥
	ResendBaseURL    string `mapstructure:"resend_base_url"`     // 默认 https://api.resend.com
	FromEmail        string `mapstructure:"from_email"`          // 发件人地址
	AppURL           string `mapstructure:"app_url"`             // 邮件内的应用入口链接
	TemplateDir      string `mapstructure:"template_dir"`        // 邮件模板目录
	SchedulerEnabled bool   `mapstructure:"scheduler_enabled"`   // 是否启用内置整点批处理
	SendTimeoutSec   int    `mapstructure:"send_timeout_seconds"`
}

// TimeConfig 系统统一的本地时区偏移（默认 +9:00，不做夏令时）
type TimeConfig struct {
	OffsetHours int `mapstructure:"offset_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("FAILURE_BANK")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Notification
	viper.BindEnv("notification.api_key", "NOTIFICATION_API_KEY")
	viper.BindEnv("notification.resend_api_key", "RESEND_API_KEY")
	viper.BindEnv("notification.resend_base_url", "RESEND_BASE_URL")
	viper.BindEnv("notification.from_email", "FROM_EMAIL")
	viper.BindEnv("notification.app_url", "APP_URL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("time.offset_hours", 9)
	viper.SetDefault("notification.resend_base_url", "https://api.resend.com")
	viper.SetDefault("notification.template_dir", "templates")
	viper.SetDefault("notification.send_timeout_seconds", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Server.Mode == "release" && cfg.Notification.APIKey == "" {
		return nil, fmt.Errorf("notification.api_key must be set in release mode")
	}

	return &cfg, nil
}
