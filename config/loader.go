package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	EnvEndpoint = "ATTENDANCE_ENDPOINT"
	EnvTimeout  = "ATTENDANCE_TIMEOUT"
)

var (
	configReloadSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Name:      "config_last_reload_successful",
		Help:      "Attendance config loaded successfully.",
	})

	configReloadSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Name:      "config_last_reload_success_timestamp_seconds",
		Help:      "Timestamp of the last successful configuration reload.",
	})
)

func init() {
	prometheus.MustRegister(configReloadSuccess)
	prometheus.MustRegister(configReloadSeconds)
}

type SafeConfig struct {
	sync.RWMutex
	configFile string
	envFile    string
	processEnv map[string]string
	c          *Config
}

func (sc *SafeConfig) Get() *Config {
	sc.RLock()
	defer sc.RUnlock()
	return sc.c
}

// New prepares a SafeConfig. An empty configFile means defaults plus
// environment, envFile is read on every load and only when it exists.
// Process environment wins over envFile, which wins over configFile.
func New(configFile string, envFile string) *SafeConfig {
	c := DefaultConfig()
	processEnv := map[string]string{}
	for _, key := range []string{EnvEndpoint, EnvTimeout} {
		if value := os.Getenv(key); value != "" {
			processEnv[key] = value
		}
	}
	return &SafeConfig{
		c:          &c,
		configFile: configFile,
		envFile:    envFile,
		processEnv: processEnv,
	}
}

func (sc *SafeConfig) LoadConfig() (err error) {
	defer func() {
		if err != nil {
			configReloadSuccess.Set(0)
		} else {
			configReloadSuccess.Set(1)
			configReloadSeconds.SetToCurrentTime()
		}
	}()

	env, err := sc.readEnvFile()
	if err != nil {
		return err
	}
	for key, value := range sc.processEnv {
		env[key] = value
	}

	c := DefaultConfig()
	if sc.configFile != "" {
		err = decodeFile(sc.configFile, &c)
		if err != nil {
			return err
		}
	}

	err = applyEnv(&c, env)
	if err != nil {
		return err
	}

	err = c.Endpoint.Validate()
	if err != nil {
		return err
	}

	sc.Lock()
	sc.c = &c
	defer sc.Unlock()

	return nil
}

func (sc *SafeConfig) readEnvFile() (map[string]string, error) {
	if sc.envFile == "" {
		return map[string]string{}, nil
	}
	_, err := os.Stat(sc.envFile)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(sc.envFile)
	if err != nil {
		return nil, fmt.Errorf("error loading %s file: %w", sc.envFile, err)
	}
	return env, nil
}

func decodeFile(configFile string, c *Config) error {
	yamlReader, err := os.Open(configFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	defer yamlReader.Close()
	decoder := yaml.NewDecoder(yamlReader, yaml.DisallowUnknownField())

	err = decoder.Decode(c)
	if err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func applyEnv(c *Config, env map[string]string) error {
	if value := env[EnvEndpoint]; value != "" {
		c.Endpoint.URL = value
	}
	if value := env[EnvTimeout]; value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Endpoint.Timeout = timeout
	}
	return nil
}
