package web

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/despesa-app/despesa/internal/cli"
	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/exchange"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/router"
	"github.com/despesa-app/despesa/internal/service"
	"github.com/despesa-app/despesa/internal/storage"
)

type webCommand struct {
}

func NewCommand() cli.Command {
	return webCommand{}
}

func (c webCommand) Description() string {
	return "Runs the expense tracker web interface"
}

var port string
var timeout int

const defaultTimeout = 3

func (c webCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&port, "p", "", "port (defaults to the configured port)")
	fs.IntVar(&timeout, "t", defaultTimeout, "read header timeout in seconds")
}

func (c webCommand) Run(conf *config.Config, s storage.Storage, logger *logger.Logger) error {
	if conf.Exchange.APIKey == "" {
		return fmt.Errorf("no exchange API key configured, set DESPESA_EXCHANGE_API_KEY")
	}

	if port == "" {
		port = conf.Port
	}

	converter := exchange.New(conf.Exchange)
	expenseService := service.New(s, converter, logger)
	handler, _ := router.New(expenseService, logger)

	logger.Info("Starting web interface", "url", fmt.Sprintf("http://localhost:%s", port))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		ReadHeaderTimeout: time.Duration(timeout) * time.Second,
		Handler:           handler,
	}
	return server.ListenAndServe()
}
