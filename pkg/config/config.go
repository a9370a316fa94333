package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Name           string        `mapstructure:"name"`
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SessionIdle    time.Duration `mapstructure:"session_idle"`
}

type GatewayConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig selects the gorm dialect. Driver is "mysql" or "postgres".
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TTL       time.Duration `mapstructure:"ttl"`
	// Admin is created at startup when it does not exist yet.
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type LogConfig struct {
	Level       string        `mapstructure:"level"`
	Encoding    string        `mapstructure:"encoding"`
	OutputPaths []string      `mapstructure:"output_paths"`
	File        LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotated JSON log file next to the regular outputs.
type LogFileConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "shop-service")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.session_idle", 10*time.Minute)
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.allow_origins", []string{"*"})
	v.SetDefault("gateway.timeout", 5*time.Second)
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/services/")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.ttl", 30*time.Minute)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("mongodb.collection", "audit_logs")
	v.SetDefault("rabbitmq.exchange", "order.events")
	v.SetDefault("auth.issuer", "retailshop")
	v.SetDefault("auth.ttl", 12*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("log.file.max_size_mb", 50)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 7)
}

// Load reads the YAML file at configPath. Every key can be overridden from the
// environment with the SHOP_ prefix, e.g. SHOP_DATABASE_PASSWORD.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be mysql or postgres, got %q", c.Database.Driver))
	}
	if c.Database.Host == "" || c.Database.Database == "" {
		errs = append(errs, errors.New("database.host and database.database are required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	return errors.Join(errs...)
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (g GatewayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
