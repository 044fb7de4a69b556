package bytesocket

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a socket's settings.
//
//	host: 127.0.0.1
//	port: 12345
//	timeout: 5s
//	endian: little
//	object_encoding: json
//	charset: utf-8
type Config struct {
	Host           string         `yaml:"host"`
	Port           int            `yaml:"port"`
	Timeout        time.Duration  `yaml:"timeout"`
	Endian         Endian         `yaml:"endian"`
	ObjectEncoding ObjectEncoding `yaml:"object_encoding"`
	// Charset is the default charset for multibyte reads and writes issued
	// by tools built on the config. The socket itself takes it per call.
	Charset string `yaml:"charset"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data. Missing fields keep their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{
		Timeout: DefaultTimeout,
		Charset: UTF8,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, errors.Wrapf(ErrArgument, "port %d out of range", cfg.Port)
	}
	return cfg, nil
}

// Options converts the config to socket options.
func (c *Config) Options() []Option {
	return []Option{
		TimeoutOption(c.Timeout),
		EndianOption(c.Endian),
		ObjectEncodingOption(c.ObjectEncoding),
	}
}
