// Command server runs the crop disease and soil classification API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/agrovision/cropscan-api/internal/app"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()
	rt, err := app.NewRuntime(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	if err := rt.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/server.yaml"
}
