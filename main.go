package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/despesa-app/despesa/internal/cli"
	"github.com/despesa-app/despesa/internal/cli/list"
	"github.com/despesa-app/despesa/internal/cli/web"
	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage/sqlite"
)

var configPath string

var subcommands = map[string]cli.Command{
	"web":  web.NewCommand(),
	"list": list.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{
	"web":  nil,
	"list": nil,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	defaultConfigPath := os.Getenv("DESPESA_CONFIG")
	if defaultConfigPath == "" {
		defaultConfigPath = "despesa.yml"
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", defaultConfigPath, "Configuration file")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		log.Fatalf("unsupported command %s. \nUse 'help' command to print information about supported commands\n", commandName)
	}

	subcommandsFlagSets[commandName].Parse(os.Args[2:])

	conf, err := config.Parse(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse the configuration. %s", err.Error())
		os.Exit(1)
	}

	appLogger := logger.New(conf.Logger)

	appLogger.Info("Using database", "path", conf.DB.Source)

	store, err := sqlite.New(conf.DB)
	if err != nil {
		appLogger.Fatal("Unable to open the database", "error", err.Error())
	}

	err = store.ApplyMigrations(context.Background(), appLogger)
	if err != nil {
		appLogger.Fatal("Unable to create schema", "error", err.Error())
	}

	runErr := command.Run(conf, store, appLogger)

	if err = store.Close(); err != nil {
		appLogger.Error("Error closing storage", "error", err)
	}

	if runErr != nil {
		appLogger.Fatal("command failed", "command", commandName, "error", runErr.Error())
	}
}

func printHelp() {
	printUsage()

	for c, cLogic := range subcommands {
		fmt.Printf("subcommmand <%s>: %s\n", c, cLogic.Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: despesa <subcommand> [flags]\n\n")
}
