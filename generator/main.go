package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/yaron8/rca-telemetry-synth/generator/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	serve := flag.Bool("serve", false, "serve /dataset over HTTP instead of generating once")
	flag.Parse()

	bootstrap, err := bootstrap.NewBootstrap(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to bootstrap generator: %v", err))
	}

	if *serve {
		if err := bootstrap.StartServer(); err != nil {
			panic(fmt.Sprintf("Failed to start server: %v", err))
		}
		return
	}

	run, err := bootstrap.RunOnce(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to generate dataset: %v", err))
	}
	fmt.Printf("Generated dataset with %d rows\n", len(run.Rows))
}
