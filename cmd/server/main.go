package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hobbang/studyhub/config"
	"github.com/hobbang/studyhub/internal/database"
	"github.com/hobbang/studyhub/internal/di"
	"github.com/hobbang/studyhub/logger"
)

var rootCmd = &cobra.Command{
	Use:   "studyhub-server",
	Short: "StudyHub account service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return database.Migrate(cfg.DatabaseURL)
	},
}

func serve() error {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
	})
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}

	srv, err := di.InitializeServer(cfg, db)
	if err != nil {
		return err
	}
	return srv.Run()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
