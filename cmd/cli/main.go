package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/authkeeper/internal/cli"
	"github.com/dmitrijs2005/authkeeper/internal/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
