package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/horoscope/internal/domain/horoscope"
	"github.com/yanqian/horoscope/internal/infra/config"
	apperrors "github.com/yanqian/horoscope/pkg/errors"
)

// Handler wires the HTTP transport to the horoscope domain.
type Handler struct {
	service      horoscope.Service
	cacheControl string
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(service horoscope.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		service:      service,
		cacheControl: cacheControlValue(cfg.HTTP.Cache),
		logger:       logger.With("component", "http.handler"),
	}
}

// Daily returns the horoscope payload for the caller's location.
func (h *Handler) Daily(c *gin.Context) {
	req := horoscope.Request{
		ClientIP:  clientAddress(c),
		TimeZone:  c.Query("tz"),
		Date:      c.Query("date"),
		RequestID: requestIDFrom(c),
	}

	resp, err := h.service.Daily(c.Request.Context(), req)
	if err != nil {
		c.Header("Cache-Control", "no-store")
		if apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "horoscope_failed", "failed to generate horoscope", err))
		return
	}

	if h.cacheControl != "" {
		c.Header("Cache-Control", h.cacheControl)
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// clientAddress prefers the first forwarded hop, then the socket peer.
func clientAddress(c *gin.Context) string {
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); fwd != "" {
		return fwd
	}
	return c.RemoteIP()
}

func cacheControlValue(cfg config.CacheConfig) string {
	if cfg.MaxAge <= 0 {
		return ""
	}
	value := fmt.Sprintf("s-maxage=%d", int(cfg.MaxAge.Seconds()))
	if cfg.StaleWhileRevalidate > 0 {
		value += fmt.Sprintf(", stale-while-revalidate=%d", int(cfg.StaleWhileRevalidate.Seconds()))
	}
	return value
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
