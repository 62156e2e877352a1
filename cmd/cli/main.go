package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/attendance/internal/client/cli"
	"github.com/dmitrijs2005/attendance/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, closeFn, err := cli.NewFromConfig(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer closeFn()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
