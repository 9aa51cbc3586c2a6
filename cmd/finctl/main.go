package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/gophledger/internal/client/cli"
	"github.com/dmitrijs2005/gophledger/internal/client/config"
	"github.com/dmitrijs2005/gophledger/internal/flagx"
)

func main() {

	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	args := flagx.StripArgs(os.Args[1:], config.GlobalFlags)
	os.Exit(int(app.Run(context.Background(), args)))

}
