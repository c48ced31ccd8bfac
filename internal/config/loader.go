package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".coloringbook"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile parses the YAML file at path. Unknown keys are rejected so a
// typo does not silently fall back to a default. A missing file yields
// ErrConfigNotFound; an empty file yields an empty File.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile returns the configuration file to use, or "" when there is
// none. An explicit configPath is used only if it exists. Otherwise the
// candidates are tried in order:
//  1. .coloringbook in the working directory (per project)
//  2. .coloringbook in the home directory
//  3. config.yaml in the XDG config directory
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if isFile(configPath) {
			return configPath
		}
		return ""
	}

	for _, candidate := range configCandidates() {
		if isFile(candidate) {
			return candidate
		}
	}
	return ""
}

func configCandidates() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), "config.yaml"))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
