// Package config loads optional application configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/inspect/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds scan and output defaults that flags may
// override. Pointer fields distinguish "unset" from an explicit false/zero.
type ApplicationConfiguration struct {
	Format            string             `mapstructure:"format"`
	Hidden            *bool              `mapstructure:"hidden"`
	Ignore            []string           `mapstructure:"ignore"`
	IgnoreDirectories []string           `mapstructure:"ignore_dirs"`
	MaxDepth          *int               `mapstructure:"max_depth"`
	UseGitignore      *bool              `mapstructure:"use_gitignore"`
	Extensions        []string           `mapstructure:"extensions"`
	ReadAll           *bool              `mapstructure:"read_all"`
	Metadata          *bool              `mapstructure:"metadata"`
	Tokens            TokenConfiguration `mapstructure:"tokens"`
	Clipboard         *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from the global and local
// files, returning their merged result. Missing files contribute nothing.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Ignore = utils.DeduplicatePatterns(merged.Ignore)
	merged.IgnoreDirectories = utils.DeduplicatePatterns(merged.IgnoreDirectories)
	merged.Extensions = utils.DeduplicatePatterns(merged.Extensions)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInformation.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Hidden != nil {
		result.Hidden = cloneBool(override.Hidden)
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicatePatterns(override.Ignore)...)
	}
	if len(override.IgnoreDirectories) > 0 {
		result.IgnoreDirectories = append([]string{}, utils.DeduplicatePatterns(override.IgnoreDirectories)...)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, utils.DeduplicatePatterns(override.Extensions)...)
	}
	if override.ReadAll != nil {
		result.ReadAll = cloneBool(override.ReadAll)
	}
	if override.Metadata != nil {
		result.Metadata = cloneBool(override.Metadata)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
