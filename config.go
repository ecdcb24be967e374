package simdash

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jd3nn1s/simdash/forwarder"
	"github.com/jd3nn1s/simdash/shm"
	"github.com/pkg/errors"
)

const defaultPollInterval = 16 * time.Millisecond

// Config is read from TOML. A missing forwarder table disables that
// forwarder.
type Config struct {
	PollIntervalMs   int
	SharedMemoryPath string

	UDP       *forwarder.UDPConfig
	WebSocket *forwarder.WebSocketConfig
}

func DefaultConfig() *Config {
	return &Config{SharedMemoryPath: shm.DefaultPath}
}

// LoadConfig reads fileName. Relative names are resolved against the
// directory holding the binary.
func LoadConfig(fileName string) (*Config, error) {
	path := fileName
	if !filepath.IsAbs(path) {
		dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to determine binary location")
		}
		path = filepath.Join(dir, fileName)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open file %s", fileName)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

func LoadConfigFromReader(configReader io.Reader) (*Config, error) {
	configData, err := io.ReadAll(configReader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config reader")
	}
	config := DefaultConfig()
	if _, err := toml.Decode(string(configData), config); err != nil {
		return nil, errors.Wrap(err, "unable to load configuration")
	}
	if config.SharedMemoryPath == "" {
		config.SharedMemoryPath = shm.DefaultPath
	}
	return config, nil
}

func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return defaultPollInterval
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
