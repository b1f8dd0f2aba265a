// Package ioconfig renders and checks YAML configuration files.
package ioconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gnames/gndocs/pkg/config"
	"gopkg.in/yaml.v3"
)

// passwordMask replaces the database password in rendered configs.
const passwordMask = "********"

// Dump renders the effective configuration in config.yaml format.
// The database password is masked.
func Dump(cfg *config.Config) (string, error) {
	c := *cfg
	if c.Database.Password != "" {
		c.Database.Password = passwordMask
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(data), nil
}

// ValidateFile checks that a config file is well-formed YAML with
// known sections. Settings that are commented out are fine.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg config.Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}
