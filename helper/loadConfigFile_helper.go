package helper

import (
	"bitbucket_v2/log"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// LoadConfigFile decodes the yaml file at path into cfg.
func LoadConfigFile(path string, cfg any) error {
	f, err := os.ReadFile(path)
	if err != nil {
		log.Error(err)
		return fmt.Errorf("read config %q: %w", path, err)
	}

	err = yaml.Unmarshal(f, cfg)
	if err != nil {
		log.Error(err)
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}
