// file: internal/config/config.go
// version: 1.0.0
// guid: 2a4c6e8f-0b2d-4e6f-8a1c-3d5e7f9a1b3c

package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DataDir      string
	LibraryPath  string
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"

	GoogleBooksBaseURL string
	OpenLibraryBaseURL string

	ServerHost string
	ServerPort int

	APIKeys struct {
		GoogleBooks string
	}
}

var AppConfig Config

// InitConfig initializes the application configuration from viper.
func InitConfig() {
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("server_host", "0.0.0.0")
	viper.SetDefault("server_port", 8080)

	AppConfig = Config{
		DataDir:            viper.GetString("data_dir"),
		LibraryPath:        viper.GetString("library_path"),
		DatabasePath:       viper.GetString("database_path"),
		DatabaseType:       viper.GetString("database_type"),
		GoogleBooksBaseURL: viper.GetString("google_books_base_url"),
		OpenLibraryBaseURL: viper.GetString("openlibrary_base_url"),
		ServerHost:         viper.GetString("server_host"),
		ServerPort:         viper.GetInt("server_port"),
	}

	AppConfig.APIKeys.GoogleBooks = viper.GetString("api_keys.google_books")

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}

	if AppConfig.LibraryPath == "" {
		AppConfig.LibraryPath = filepath.Join(AppConfig.DataDir, "library.csv")
	}
	if AppConfig.DatabasePath == "" {
		AppConfig.DatabasePath = filepath.Join(AppConfig.DataDir, "librorank.db")
	}
}
