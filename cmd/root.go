// file: cmd/root.go
// version: 1.0.0
// guid: 0c2e4a6b-8d0f-4a2c-9b5d-1e3f5a7b9c1d

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/librorank/librorank/internal/config"
	"github.com/librorank/librorank/internal/database"
	"github.com/librorank/librorank/internal/library"
	"github.com/librorank/librorank/internal/resolve"
	"github.com/librorank/librorank/internal/server"
)

var cfgFile string
var dataDir string
var libraryPath string
var databasePath string
var databaseType string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "librorank",
	Short: "Track your reading list and rank what to read next",
	Long: `LibroRank keeps a CSV-backed reading list, enriches it with
authoritative catalog metadata from Google Books and Open Library, and
recommends tonight's read from your to-read shelf.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web API",
	Long:  `Start the HTTP API for the reading list and catalog resolution.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		lib, err := library.Open(config.AppConfig.LibraryPath)
		if err != nil {
			return fmt.Errorf("failed to open library: %w", err)
		}
		if err := lib.Watch(); err != nil {
			return fmt.Errorf("failed to watch library file: %w", err)
		}
		defer lib.Close()

		resolver := resolve.NewResolver(newGoogleBooksClient(), database.GlobalStore)

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		if host == "" {
			host = config.AppConfig.ServerHost
		}
		if port == 0 {
			port = config.AppConfig.ServerPort
		}

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)
		fmt.Printf("Library: %s (%d books)\n", config.AppConfig.LibraryPath, lib.Len())

		srv := server.NewServer(lib, resolver)
		return srv.Start(server.ServerConfig{
			Host:         host,
			Port:         port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.librorank.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "data", "directory for library, database and raw scrapes")
	rootCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "path to the library CSV (default: <data-dir>/library.csv)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to the record database (default: <data-dir>/librorank.db)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default) or sqlite")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("library_path", rootCmd.PersistentFlags().Lookup("library"))
	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)

	serveCmd.Flags().Int("port", 0, "port to run the web server on")
	serveCmd.Flags().String("host", "", "host to bind the web server to")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".librorank")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
	if err := config.LoadConfigFromFile(); err != nil {
		fmt.Printf("Error loading config file: %v\n", err)
	}

	if config.AppConfig.DataDir != "" {
		if err := os.MkdirAll(config.AppConfig.DataDir, 0o755); err != nil {
			fmt.Printf("Error creating data directory: %v\n", err)
		}
	}
	if config.AppConfig.DatabasePath != "" {
		dbDir := filepath.Dir(config.AppConfig.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				fmt.Printf("Error creating database directory: %v\n", err)
			}
		}
	}
}
