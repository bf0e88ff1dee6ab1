package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout of an inventory seed file:
//
//	events:
//	  concert-01: 5
//	  concert-02: 3
type SeedFile struct {
	Events map[string]int `yaml:"events"`
}

func LoadSeeds(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return ParseSeeds(data)
}

func ParseSeeds(data []byte) (map[string]int, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(file.Events) == 0 {
		return nil, fmt.Errorf("seed file defines no events")
	}
	for key, seats := range file.Events {
		if key == "" {
			return nil, fmt.Errorf("seed file contains an empty event id")
		}
		if seats < 0 {
			return nil, fmt.Errorf("event %s has negative seats: %d", key, seats)
		}
	}
	return file.Events, nil
}
