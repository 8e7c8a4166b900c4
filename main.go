package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jasonamaral/mba.modulo4-sub001/cmd"
	"github.com/jasonamaral/mba.modulo4-sub001/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := cmd.NewApp(cfg)
	if err != nil {
		fmt.Printf("Failed to build application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Printf("Application exited with error: %v\n", err)
		os.Exit(1)
	}
}
