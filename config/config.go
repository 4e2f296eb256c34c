package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"standup/model"
	"standup/scheduler"
	"standup/utils"

	"github.com/spf13/viper"
)

// MaxQuestions is the number of embeds Discord accepts on a single message,
// which bounds the size of a posted summary.
const MaxQuestions = 10

const maxQuestionLength = 256

// Cfg holds the configuration loaded by LoadConfig.
var Cfg model.Config

// LoadConfig reads config.yaml (or the file named by STANDUP_CONFIG) into Cfg.
func LoadConfig() error {
	cfg, err := Load(os.Getenv("STANDUP_CONFIG"))
	if err != nil {
		return err
	}
	Cfg = *cfg
	return nil
}

// Load reads and validates the configuration. An empty path searches for
// config.yaml in the working directory and ./config.
func Load(path string) (*model.Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	if err := v.BindEnv("TOKEN", "DISCORD_TOKEN", "TOKEN"); err != nil {
		return nil, err
	}

	v.SetDefault("standup.schedule", "0 15 10 * * 1-5")
	v.SetDefault("standup.timezone", "Local")
	v.SetDefault("standup.sendTimeout", 15*time.Second)
	v.SetDefault("database.path", "./data/standup.db")
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the bot cannot run without. An empty question
// list is accepted; cycles are then skipped with a warning.
func Validate(cfg *model.Config) error {
	var errs []error
	if cfg.Token == "" {
		errs = append(errs, errors.New("TOKEN is required"))
	}
	if cfg.Standup.TeamChannel == "" {
		errs = append(errs, errors.New("standup.teamChannel is required"))
	}
	if _, err := scheduler.Parse(cfg.Standup.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("standup.schedule: %w", err))
	}
	if _, err := time.LoadLocation(cfg.Standup.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("standup.timezone: %w", err))
	}
	if len(cfg.Standup.Questions) > MaxQuestions {
		errs = append(errs, fmt.Errorf("standup.questions: at most %d questions are supported, got %d", MaxQuestions, len(cfg.Standup.Questions)))
	}
	for i, q := range cfg.Standup.Questions {
		if q.Text == "" {
			errs = append(errs, fmt.Errorf("standup.questions[%d]: question text is empty", i))
		}
		if utf8.RuneCountInString(q.Text) > maxQuestionLength {
			errs = append(errs, fmt.Errorf("standup.questions[%d]: question longer than %d characters", i, maxQuestionLength))
		}
		if _, err := utils.ParseColor(q.Color); err != nil {
			errs = append(errs, fmt.Errorf("standup.questions[%d]: %w", i, err))
		}
	}
	if cfg.Standup.SendTimeout < 0 {
		errs = append(errs, errors.New("standup.sendTimeout must not be negative"))
	}
	return errors.Join(errs...)
}
