package cli

import (
	"flag"

	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage"
)

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(conf *config.Config, storage storage.Storage, logger *logger.Logger) error
}
