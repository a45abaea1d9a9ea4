package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Read reads a config from the given file. The format follows the extension (.json, .yaml or
// .yml); ${VAR} references are expanded from the environment first. Keys missing from the file
// keep their defaults.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", filePath)
	}
	cfg, err := FromBytes(filepath.Ext(filePath), buf)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", filePath)
	}
	cfg.ConfigFilePath = filePath
	return cfg, nil
}

// FromBytes decodes a config in the format named by ext on top of the defaults and validates it.
func FromBytes(ext string, buf []byte) (*Config, error) {
	raw := map[string]interface{}{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(buf, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to decode json")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(buf, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml")
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", ext)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "failed to process config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
