package core

import (
	"log"
	"os"

	"dario.cat/mergo"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "cosmic.config.yml"

type Config struct {
	TemplatesDir string `yaml:"templatesDir" json:"templatesDir"`
	OutputDir    string `yaml:"outputDir" json:"outputDir"`
	CacheEnabled bool   `yaml:"cache" json:"cache"`
	Minify       bool   `yaml:"minify" json:"minify"`
	DebugHeaders bool   `yaml:"debugHeaders" json:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs" json:"debugLogs"`
	Port         int    `yaml:"port" json:"port"`
}

func DefaultConfig() Config {
	return Config{
		TemplatesDir: "templates",
		OutputDir:    "./cache",
		Port:         8080,
	}
}

// LoadConfig reads the YAML file at path. A missing or malformed file yields
// the defaults; COSMIC_* environment variables are applied last.
func LoadConfig(path string) Config {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("cosmic: ignoring %s: %v", path, err)
			cfg = Config{}
		}
	}

	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		log.Printf("cosmic: applying config defaults: %v", err)
	}

	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("COSMIC_TEMPLATES_DIR"); ok && v != "" {
		cfg.TemplatesDir = v
	}
	if v, ok := os.LookupEnv("COSMIC_OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv("COSMIC_CACHE"); ok {
		cfg.CacheEnabled = cast.ToBool(v)
	}
	if v, ok := os.LookupEnv("COSMIC_MINIFY"); ok {
		cfg.Minify = cast.ToBool(v)
	}
	if v, ok := os.LookupEnv("COSMIC_DEBUG_HEADERS"); ok {
		cfg.DebugHeaders = cast.ToBool(v)
	}
	if v, ok := os.LookupEnv("COSMIC_DEBUG_LOGS"); ok {
		cfg.DebugLogs = cast.ToBool(v)
	}
	if v, ok := os.LookupEnv("COSMIC_PORT"); ok {
		if port, err := cast.ToIntE(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
}
