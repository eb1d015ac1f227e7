package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Listen      string   `yaml:"listen"`
	MetricsPath string   `yaml:"metrics_path"`
	FormPath    string   `yaml:"form_path"`
	Endpoint    Endpoint `yaml:"endpoint"`
}

func DefaultConfig() Config {
	return Config{
		Listen:      ":8080",
		MetricsPath: "/metrics",
		FormPath:    "/",
		Endpoint:    DefaultEndpoint(),
	}
}

func DefaultEndpoint() Endpoint {
	return Endpoint{
		Timeout: 10 * time.Second,
	}
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig()

	type plain Config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	return nil
}

// Endpoint is the remote URL accepting attendance submissions.
type Endpoint struct {
	URL                string        `yaml:"url"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

func (e *Endpoint) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*e = DefaultEndpoint()

	type plain Endpoint
	if err := unmarshal((*plain)(e)); err != nil {
		return err
	}

	return nil
}

func (e Endpoint) Validate() error {
	if e.URL == "" {
		return errors.New("endpoint url is empty")
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint url must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint url %q has no host", e.URL)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("endpoint timeout must be positive, got %s", e.Timeout)
	}
	return nil
}
