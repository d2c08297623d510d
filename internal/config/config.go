package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the full configuration tree, loaded from YAML.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	CheckinCompleted string `mapstructure:"checkin_completed"`
	CreditGranted    string `mapstructure:"credit_granted"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type BusinessConfig struct {
	// Grants above this quantity require an explicit confirmation
	// flag from the caller. Not a hard cap.
	HighQuantityThreshold int `mapstructure:"high_quantity_threshold"`
	MaxRetryCount         int `mapstructure:"max_retry_count"`
}

// LoadConfig reads and parses the YAML configuration file.
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("business.high_quantity_threshold", 100)
	viper.SetDefault("business.max_retry_count", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("falha ao ler arquivo de configuração: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("falha ao interpretar configuração: %v", err)
	}

	return config
}
