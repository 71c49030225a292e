package main

import (
	"context"
	"log"
	"os"

	"github.com/Ayash13/Antivity/internal/buildinfo"
	"github.com/Ayash13/Antivity/internal/client/cli"
	"github.com/Ayash13/Antivity/internal/client/config"
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
