package main

import (
	"context"
	"log"
	"os"

	"github.com/railcrew/worklog/internal/buildinfo"
	"github.com/railcrew/worklog/internal/cli"
	"github.com/railcrew/worklog/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
