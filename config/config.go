package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI  string `yaml:"uri"`
		Name string `yaml:"name"`
		Seed bool   `yaml:"seed"`
	} `yaml:"database"`

	Gemini struct {
		ApiKey         string `yaml:"apiKey"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"gemini"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	SMTP struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		SenderEmail string `yaml:"senderEmail"`
		SenderName  string `yaml:"senderName"`
	} `yaml:"smtp"`

	Auth struct {
		SessionTTLHours      int    `yaml:"sessionTTLHours"`
		ResetTTLMinutes      int    `yaml:"resetTTLMinutes"`
		ResetURL             string `yaml:"resetURL"`
		PasswordMinLength    int    `yaml:"passwordMinLength"`
		PasswordRequireMixed bool   `yaml:"passwordRequireMixed"`
	} `yaml:"auth"`

	RateLimit struct {
		GenerationPerMinute int `yaml:"generationPerMinute"`
	} `yaml:"rateLimit"`

	CORS struct {
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"cors"`
}

// LoadConfig reads the YAML file at path, then applies .env and environment overrides.
// A missing file is not an error so the server can be configured from the environment alone.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Auth.PasswordRequireMixed = true

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("Config file %s not found, using environment only", path)
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Path returns CONFIG_PATH or the default config location
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/config.yml"
}

func (c *Config) applyEnv() {
	setString(&c.Database.URI, "MONGO_URI")
	setString(&c.Database.Name, "MONGO_DB")
	setString(&c.Gemini.ApiKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Username, "SMTP_USERNAME")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.SenderEmail, "SMTP_SENDER_EMAIL")
	setString(&c.SMTP.SenderName, "SMTP_SENDER_NAME")
	setString(&c.Auth.ResetURL, "RESET_URL")
	setInt(&c.Server.Port, "PORT")
	setInt(&c.SMTP.Port, "SMTP_PORT")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORS.AllowOrigins = strings.Split(origins, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-1.5-flash"
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = 30
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.SenderName == "" {
		c.SMTP.SenderName = "CognigenX"
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 7 * 24
	}
	if c.Auth.ResetTTLMinutes <= 0 {
		c.Auth.ResetTTLMinutes = 60
	}
	if c.Auth.ResetURL == "" {
		c.Auth.ResetURL = "http://localhost:3000/reset-password"
	}
	if c.Auth.PasswordMinLength <= 0 {
		c.Auth.PasswordMinLength = 8
	}
	if c.RateLimit.GenerationPerMinute <= 0 {
		c.RateLimit.GenerationPerMinute = 20
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: not a number", key, v)
		return
	}
	*dst = n
}
