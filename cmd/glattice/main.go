package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/latticenet/go-lattice/common"
	"github.com/latticenet/go-lattice/config"
	"github.com/latticenet/go-lattice/node"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "data directory for the ledger database and logs",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level (debug|info|warn|error)",
	}

	runCommand = cli.Command{
		Action:      runAction,
		Name:        "run",
		Usage:       "run a lattice node",
		Flags:       []cli.Flag{configFlag, dataDirFlag, logLevelFlag},
		Category:    "NODE COMMANDS",
		Description: `Starts the node and blocks until interrupted.`,
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "glattice"
	app.Usage = "lattice ledger node"
	app.Commands = []cli.Command{runCommand}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.New()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dataDir := ctx.String(dataDirFlag.Name); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if lvl := ctx.String(logLevelFlag.Name); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func runAction(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	log15.Root().SetHandler(common.LogHandler(cfg.DataDir, "runlog", "glattice.log", cfg.LogLevel))

	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	if err := n.Start(); err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-interrupt

	return n.Stop()
}
