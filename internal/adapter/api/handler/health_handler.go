package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"laburo/pkg/logger"
)

// StorageChecker is satisfied by the collection registry; Init is a no-op
// once every collection is loaded.
type StorageChecker interface {
	Init(ctx context.Context) error
}

type HealthHandler struct {
	storage StorageChecker
	backend string
}

var healthHandler *HealthHandler

func NewHealthHandler(storage StorageChecker, backend string) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		backend: backend,
	}
}

func SetupHealthHandler(storage StorageChecker, backend string) {
	healthHandler = NewHealthHandler(storage, backend)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	status := http.StatusOK
	body := map[string]string{
		"status":  "Server is running",
		"storage": "ok",
		"backend": h.backend,
		"time":    time.Now().Format(time.RFC3339),
	}

	if err := h.storage.Init(c.Request().Context()); err != nil {
		logger.Error("Health check failed: %v", err)
		status = http.StatusServiceUnavailable
		body["storage"] = "unavailable"
	}

	return c.JSON(status, body)
}
