package config

import (
	"io/ioutil"

	"github.com/Luismorlan/scrooge_coin/logger"
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// This is the global app config for the ledger node.
type AppConfig struct {
	// Which signature scheme authorizes inputs: "rsa-pss" or "ed25519".
	SignatureScheme string `yaml:"signature_scheme"`
	// Key size used when generating RSA keys.
	RSAKeyBits int `yaml:"rsa_key_bits"`
	// zerolog level name.
	LogLevel string `yaml:"log_level"`
	// Human readable console logs instead of JSON.
	PrettyLogs bool `yaml:"pretty_logs"`
	// Whether the tx handler records prometheus metrics.
	MetricsEnabled bool `yaml:"metrics_enabled"`
	// Address to serve /metrics on. Empty disables the endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		SignatureScheme: string(signature.RSAPSS),
		RSAKeyBits:      2048,
		LogLevel:        "info",
		PrettyLogs:      true,
		MetricsEnabled:  true,
	}
}

// LoadAppConfig reads a yaml file on top of the defaults.
func LoadAppConfig(path string) (AppConfig, error) {
	c := DefaultAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.UnmarshalStrict(yamlFile, &c); err != nil {
		return c, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	if _, err := signature.ParseScheme(c.SignatureScheme); err != nil {
		return errors.Wrap(err, "signature_scheme")
	}
	if c.SignatureScheme == string(signature.RSAPSS) && c.RSAKeyBits < 1024 {
		return errors.Errorf("rsa_key_bits must be at least 1024, got %d", c.RSAKeyBits)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

func (c AppConfig) Scheme() signature.Scheme {
	return signature.Scheme(c.SignatureScheme)
}
