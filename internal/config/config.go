package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

// Config is the bot's environment-driven configuration. Prefixes and
// delimiters are ordered lists; DELIMITERS entries are |-separated so a
// delimiter may itself contain a comma or space (e.g. `DELIMITERS=", |,"`).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	Prefixes   []string `env:"PREFIXES" envSeparator:"|" envDefault:";"`
	Delimiters []string `env:"DELIMITERS" envSeparator:"|" envDefault:", |,"`
	OnMention  bool     `env:"ON_MENTION" envDefault:"true"`

	UsageFlushInterval int `env:"USAGE_FLUSH_INTERVAL_SEC" envDefault:"60"`
}

// New parses the configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}
	return cfg, nil
}
