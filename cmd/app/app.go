package main

import (
	"flag"
	"os"

	"github.com/DRSN-tech/go-storefront/internal/app"
	config "github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "путь к TOML-файлу конфигурации (переопределяет CONFIG_PATH)")
	flag.Parse()

	log := logger.NewSlogLogger()

	if *configPath != "" {
		if err := os.Setenv("CONFIG_PATH", *configPath); err != nil {
			log.Errorf(err, "failed to set CONFIG_PATH")
			os.Exit(1)
		}
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Errorf(err, "application stopped with error")
		os.Exit(1)
	}
}
