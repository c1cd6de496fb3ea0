package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration
type Config struct {
	Env      string         `mapstructure:"env" validate:"oneof=development production"`
	DB       DBConfig       `mapstructure:"db"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Review   ReviewConfig   `mapstructure:"review"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=sqlite3 postgres"`
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=0"`
}

// TelegramConfig is optional; reminders are logged when the token is empty
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	Debug    bool   `mapstructure:"debug"`
}

type ReminderConfig struct {
	Every     time.Duration `mapstructure:"every" validate:"gt=0"`
	StartHour int           `mapstructure:"start_hour" validate:"min=0,max=23"`
	EndHour   int           `mapstructure:"end_hour" validate:"min=0,max=23"`
}

type ReviewConfig struct {
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=1"`
	MaxInterval int `mapstructure:"max_interval" validate:"min=0"` // days, 0 means uncapped
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "data/studyreview.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.debug", false)

	v.SetDefault("reminder.every", time.Hour)
	v.SetDefault("reminder.start_hour", 8)
	v.SetDefault("reminder.end_hour", 22)

	v.SetDefault("review.max_attempts", 3)
	v.SetDefault("review.max_interval", 0)
}

// Load reads a local .env file, configDir/studyreview.yaml and the environment, in
// increasing order of precedence. Missing files are not an error.
func Load(configDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath(configDir)
	v.SetConfigName("studyreview")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errMsgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		errMsgs = append(errMsgs, fmt.Sprintf(
			"Field: %s, Tag: %s, Param: %s", e.Namespace(), e.Tag(), e.Param(),
		))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(errMsgs, "; "))
}
