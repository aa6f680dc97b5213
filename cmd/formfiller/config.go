package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the formfiller configuration, loaded from YAML with environment
// overrides for the deployment-specific knobs.
type Config struct {
	TargetURL string `yaml:"target_url"`
	Port      string `yaml:"port"`
	RedisAddr string `yaml:"redis_addr"`
	DraftKey  string `yaml:"draft_key"`

	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`

	License struct {
		ServerURL string `yaml:"server_url"`
		Codigo    string `yaml:"codigo"`
		Disabled  bool   `yaml:"disabled"`
	} `yaml:"license"`

	Browser struct {
		ExecutablePath string `yaml:"executable_path"`
		Headless       bool   `yaml:"headless"`
	} `yaml:"browser"`

	Delays struct {
		SettleMs      int `yaml:"settle_ms"`
		PollMs        int `yaml:"poll_ms"`
		WaitTimeoutMs int `yaml:"wait_timeout_ms"`
	} `yaml:"delays"`
}

// LoadConfig reads the YAML file when present and applies env overrides and
// defaults. A missing file is fine; everything has a usable default except
// the target URL.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("configuración ilegible: %v", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(&cfg.TargetURL, "FICHA_TARGET_URL")
	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.RedisAddr, "REDIS_ADDR")
	applyEnv(&cfg.DraftKey, "FICHA_DRAFT_KEY")
	applyEnv(&cfg.NATS.URL, "NATS_URL")
	applyEnv(&cfg.NATS.Subject, "FICHA_COMMAND_SUBJECT")
	applyEnv(&cfg.License.ServerURL, "LICENSE_SERVER_URL")
	applyEnv(&cfg.License.Codigo, "LICENSE_CODE")
	applyEnv(&cfg.Browser.ExecutablePath, "PLAYWRIGHT_EXECUTABLE_PATH")

	if cfg.Port == "" {
		cfg.Port = "8086"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.DraftKey == "" {
		cfg.DraftKey = "ficha:borrador"
	}
	if cfg.TargetURL == "" {
		return nil, fmt.Errorf("falta target_url (o FICHA_TARGET_URL)")
	}
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
