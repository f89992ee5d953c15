package main

import (
	"fmt"
	"strings"

	"innovation_hunt/internal/categorizer"
	"innovation_hunt/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config      `yaml:"database"`
	Redis    repository.RedisConfig `yaml:"redis"`
	Server   ServerConfig           `yaml:"server"`

	Twilio      TwilioConfig       `yaml:"twilio"`
	HuggingFace categorizer.Config `yaml:"huggingFace"`
	Game        GameConfig         `yaml:"game"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// PublicBaseURL is the fallback for building media URLs when the
	// request carries no forwarded headers.
	PublicBaseURL string `yaml:"publicBaseUrl"`
}

type TwilioConfig struct {
	AccountSID        string `yaml:"accountSid"`
	AuthToken         string `yaml:"authToken"`
	WhatsAppFrom      string `yaml:"whatsappFrom"`
	ValidateSignature bool   `yaml:"validateSignature"`
}

type GameConfig struct {
	ConnectPoints int    `yaml:"connectPoints"`
	JoinKeyword   string `yaml:"joinKeyword"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("game.connectPoints", 10)
	viper.SetDefault("game.joinKeyword", "join")
	viper.SetDefault("redis.keyPrefix", "innovation_hunt")
	viper.SetDefault("huggingFace.model", "Qwen/Qwen2.5-1.5B-Instruct")
	viper.SetDefault("logLevel", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
