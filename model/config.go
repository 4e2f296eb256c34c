package model

import "time"

// Config mirrors the top level of config.yaml.
type Config struct {
	Token    string   `mapstructure:"TOKEN"`
	Commands Commands `mapstructure:"commands"`
	Standup  Standup  `mapstructure:"standup"`
	Database Database `mapstructure:"database"`
	Logging  Logging  `mapstructure:"logging"`
}

// Commands is the "commands" section.
type Commands struct {
	AllowGuilds []string `mapstructure:"allowguilds"`
	Auth        Auth     `mapstructure:"auth"`
}

// Auth lists who may trigger a standup by hand.
type Auth struct {
	Developers  []string `mapstructure:"developers"`
	AdminsRoles []string `mapstructure:"adminsRoles"`
}

// Standup is the "standup" section.
type Standup struct {
	Schedule         string        `mapstructure:"schedule"`
	Timezone         string        `mapstructure:"timezone"`
	TeamChannel      string        `mapstructure:"teamChannel"`
	Participants     []string      `mapstructure:"participants"`
	Questions        []Question    `mapstructure:"questions"`
	SendTimeout      time.Duration `mapstructure:"sendTimeout"`
	MaxParallelSends int           `mapstructure:"maxParallelSends"`
}

// Database is the "database" section. An empty path disables the report archive.
type Database struct {
	Path string `mapstructure:"path"`
}

// Logging is the "logging" section.
type Logging struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}
