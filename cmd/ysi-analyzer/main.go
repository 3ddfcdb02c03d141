package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ysianalyzer/internal/app"
	"ysianalyzer/internal/config"
	"ysianalyzer/internal/infrastructure"
	"ysianalyzer/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (overrides "+config.ConfigFileEnv+")")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *configFile != "" {
		if err := os.Setenv(config.ConfigFileEnv, *configFile); err != nil {
			slog.Error("Failed to set config file", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
