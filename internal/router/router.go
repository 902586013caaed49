package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/service"
	"github.com/despesa-app/despesa/internal/storage"
)

type router struct {
	service *service.Service
	logger  *logger.Logger
}

//nolint:revive // We return the private router struct to allow testing some internal functions
func New(s *service.Service, logger *logger.Logger) (http.Handler, *router) {
	router := &router{
		service: s,
		logger:  logger,
	}

	parseTemplates()

	mux := &http.ServeMux{}

	// Routes
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		router.indexHandler(w, r)
	})

	mux.HandleFunc("POST /expenses", func(w http.ResponseWriter, r *http.Request) {
		router.addHandler(w, r)
	})

	mux.HandleFunc("GET /expense/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		router.editFormHandler(w, r)
	})

	mux.HandleFunc("POST /expense/{id}", func(w http.ResponseWriter, r *http.Request) {
		router.updateHandler(w, r)
	})

	mux.HandleFunc("POST /expense/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		router.deleteHandler(w, r)
	})

	var handler http.Handler = mux
	handler = xFrameDenyHeaderMiddleware(handler)
	handler = loggingMiddleware(logger, handler)

	return handler, router
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// userMessage maps an operation error to the banner text shown on the
// rendered page. Every failure is surfaced, not just logged.
func userMessage(err error) string {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid input: check " + strings.Join(validationErr.Fields, ", ") + "."
	}

	var conversionErr *service.ConversionError
	if errors.As(err, &conversionErr) {
		return "Currency conversion failed. The expense was not saved."
	}

	var notFoundErr *storage.NotFoundError
	if errors.As(err, &notFoundErr) {
		return "Expense not found. It may have been deleted already."
	}

	return "Something went wrong. The operation was not completed."
}
