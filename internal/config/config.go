package config

import (
	"StoreImport/pkg/logging"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"
)

const DefaultPath = "./config/config.ini"

type (
	Config struct {
		DATABASE struct {
			Driver     string
			DSN        string
			Prefix     string
			UploadsURL string
		}
		MIGRATION struct {
			Source        string
			OrderPageSize int
		}
		LOG struct {
			Debug int
			Dir   string
		}
		SERVICE struct {
			Port int
		}
		TELEGRAM struct {
			BotToken string
			ChatID   int64
			Report   int
		}
		METRICS struct {
			PushgatewayURL string
			Job            string
		}
	}
)

var cfg *Config
var once sync.Once
var path = DefaultPath

// SetPath changes the file read by GetConfig. Has no effect after the first GetConfig call.
func SetPath(p string) {
	path = p
}

func GetConfig() *Config {
	once.Do(func() {
		logger := logging.GetLogger()
		logger.Infof("Config:>Read application configurations from %s", path)

		c, err := ReadConfig(path)
		if err != nil {
			logger.Fatalf("Config:>Failed to parse gcfg data: %v", err)
		}
		logger.Info("Config:>Config is read")
		cfg = c
	})

	return cfg
}

func ReadConfig(p string) (*Config, error) {
	c := new(Config)
	if err := gcfg.ReadFileInto(c, p); err != nil {
		return nil, errors.Wrapf(err, "failed gcfg.ReadFileInto(%s)", p)
	}
	c.setDefaults()
	return c, nil
}

func ReadString(s string) (*Config, error) {
	c := new(Config)
	if err := gcfg.ReadStringInto(c, s); err != nil {
		return nil, errors.Wrap(err, "failed gcfg.ReadStringInto")
	}
	c.setDefaults()
	return c, nil
}

func (c *Config) setDefaults() {
	if c.DATABASE.Driver == "" {
		c.DATABASE.Driver = "mysql"
	}
	if c.DATABASE.Prefix == "" {
		c.DATABASE.Prefix = "wp_"
	}
	if c.MIGRATION.Source == "" {
		c.MIGRATION.Source = "velocity"
	}
	if c.MIGRATION.OrderPageSize <= 0 {
		c.MIGRATION.OrderPageSize = 50
	}
	if c.SERVICE.Port == 0 {
		c.SERVICE.Port = 8080
	}
	if c.METRICS.Job == "" {
		c.METRICS.Job = "store_import"
	}
}
