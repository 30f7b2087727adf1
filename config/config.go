// Package config loads the settings of the dca tools from the environment.
package config

import (
	"time"

	"github.com/etnz/dca"
	"github.com/etnz/dca/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. DCA_ADDR.
const Prefix = "DCA"

// Config holds the settings shared by all commands.
//
// Nested settings are prefixed by their field name: DCA_SERVER_ADDR,
// DCA_LOG_LEVEL.
type Config struct {
	// Data is the store folder.
	Data string `envconfig:"DATA" default:"."`

	// Market is the market of symbols given without one.
	Market dca.Market `envconfig:"MARKET" default:"tw"`

	// Amount is the default contribution per period.
	Amount string `envconfig:"AMOUNT" default:"1000"`

	Server Server
	Log    logger.Config
}

// Server holds the HTTP server settings.
type Server struct {
	Addr         string        `envconfig:"ADDR" default:"localhost:5000"`
	Static       string        `envconfig:"STATIC" default:"static"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
}

// Load reads an optional .env file, then maps DCA_* environment variables
// onto a Config (see [Prefix]). Variables already set in the environment take precedence
// over the .env file.
func Load(files ...string) (*Config, error) {
	// the .env file is optional.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
