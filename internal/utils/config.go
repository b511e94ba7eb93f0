package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"reflect"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// CreateConfigDir creates the config directory, including the conversations
// subdirectory, if it does not yet exist.
func CreateConfigDir(configDirPath string) error {
	conversationsDir := filepath.Join(configDirPath, "conversations")
	if _, err := os.Stat(conversationsDir); err == nil {
		return nil
	}
	if err := os.MkdirAll(conversationsDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("created config directory at: '%v'\n", configDirPath)
	}
	return nil
}

// LoadConfigFromFile if config exists. If non existent, create a new config
// using default. New fields added to the config struct are backfilled from
// the default and persisted.
func LoadConfigFromFile[T any](configDirPath, configFileName string, dflt *T) (T, error) {
	var conf T
	if err := CreateConfigDir(configDirPath); err != nil {
		return conf, err
	}
	configPath := path.Join(configDirPath, configFileName)
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Okf("attempting to load file: %v\n", configPath)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := CreateFile(configPath, dflt); err != nil {
			return conf, fmt.Errorf("failed to write config: '%v', error: %w", configFileName, err)
		}
	}
	if err := ReadAndUnmarshal(configPath, &conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal config '%v', error: %v", configFileName, err)
	}

	// Append any new fields from default config, in case of config extension
	hasChanged := setNonZeroValueFields(&conf, dflt)
	if hasChanged {
		if err := CreateFile(configPath, &conf); err != nil {
			return conf, fmt.Errorf("failed to write config '%v' post zero-field appendage, error: %v", configFileName, err)
		}
		ancli.Okf("appended new fields and updated config file: %v\n", configPath)
	}
	return conf, nil
}

// setNonZeroValueFields on a using b as template
func setNonZeroValueFields[T any](a, b *T) bool {
	hasChanged := false
	t := reflect.TypeOf(*a)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		aVal := reflect.ValueOf(a).Elem().FieldByName(f.Name)
		bVal := reflect.ValueOf(b).Elem().FieldByName(f.Name)
		if f.IsExported() && aVal.IsZero() && !bVal.IsZero() {
			hasChanged = true
			aVal.Set(bVal)
		}
	}
	return hasChanged
}
