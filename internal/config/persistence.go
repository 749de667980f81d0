// file: internal/config/persistence.go
// version: 1.0.0
// guid: 3b5d7f9a-1c3e-4f7a-9b2d-4e6f8a0b2c4d

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath returns the path to the YAML config file in the data dir.
func ConfigFilePath() string {
	if AppConfig.DataDir == "" {
		return ""
	}
	return filepath.Join(AppConfig.DataDir, "config.yaml")
}

// LoadConfigFromFile loads settings from the YAML config file as a fallback.
// File values only fill in gaps left by flags and environment.
func LoadConfigFromFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig map[string]any
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		log.Printf("[WARN] Failed to parse config file %s: %v", path, err)
		return nil
	}

	applied := 0
	stringFallbacks := map[string]*string{
		"library_path":          &AppConfig.LibraryPath,
		"database_path":         &AppConfig.DatabasePath,
		"google_books_base_url": &AppConfig.GoogleBooksBaseURL,
		"openlibrary_base_url":  &AppConfig.OpenLibraryBaseURL,
		"google_books_api_key":  &AppConfig.APIKeys.GoogleBooks,
	}
	for key, ptr := range stringFallbacks {
		if *ptr == "" {
			if val, ok := fileConfig[key].(string); ok && val != "" {
				*ptr = val
				applied++
				log.Printf("[INFO] Loaded %s from config file", key)
			}
		}
	}

	if applied > 0 {
		log.Printf("[INFO] Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// SaveConfigToFile writes key settings to the YAML config file in the data
// dir. The API key is stored in plaintext, file permissions protect it.
func SaveConfigToFile() error {
	path := ConfigFilePath()
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	fileConfig := map[string]any{
		"library_path":  AppConfig.LibraryPath,
		"database_path": AppConfig.DatabasePath,
		"database_type": AppConfig.DatabaseType,
		"server_host":   AppConfig.ServerHost,
		"server_port":   AppConfig.ServerPort,
	}
	if AppConfig.GoogleBooksBaseURL != "" {
		fileConfig["google_books_base_url"] = AppConfig.GoogleBooksBaseURL
	}
	if AppConfig.OpenLibraryBaseURL != "" {
		fileConfig["openlibrary_base_url"] = AppConfig.OpenLibraryBaseURL
	}
	if AppConfig.APIKeys.GoogleBooks != "" {
		fileConfig["google_books_api_key"] = AppConfig.APIKeys.GoogleBooks
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
