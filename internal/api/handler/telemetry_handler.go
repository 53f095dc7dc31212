package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// BatchIngestor is the slice of the ingestor the HTTP upload depends on.
type BatchIngestor interface {
	IngestBatch(ctx context.Context, courierID string, reports []ports.ReportInput) (*ports.IngestResult, error)
}

// TelemetryHandler handles courier telemetry uploads and channel tokens.
type TelemetryHandler struct {
	ingestor    BatchIngestor
	issuer      ports.TokenIssuer
	topicPrefix string
}

// NewTelemetryHandler creates a TelemetryHandler. topicPrefix is the pub/sub
// channel prefix returned alongside channel tokens.
func NewTelemetryHandler(ingestor BatchIngestor, issuer ports.TokenIssuer, topicPrefix string) *TelemetryHandler {
	return &TelemetryHandler{ingestor: ingestor, issuer: issuer, topicPrefix: topicPrefix}
}

// Batch handles POST /v1/telemetry/batch.
//
// @Summary      Upload a batch of location reports
// @Description  Invalid items are rejected individually; the rest are stored. A batch cut short by the processing deadline returns 504 with the partial result.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []telemetryReportRequest  true  "Location reports"
// @Success      200   {object}  batchResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Failure      504   {object}  batchResponse
// @Router       /v1/telemetry/batch [post]
func (h *TelemetryHandler) Batch(c echo.Context) error {
	id, err := ctxCourier(c)
	if err != nil {
		return err
	}

	var reqs []telemetryReportRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.ingestor.IngestBatch(c.Request().Context(), id.ID, toReportInputs(reqs))
	if err != nil {
		if errors.Is(err, domain.ErrBatchTimeout) && res != nil {
			resp := toBatchResponse(res)
			resp.Error = domain.ErrBatchTimeout.Error()
			return c.JSON(http.StatusGatewayTimeout, resp)
		}
		return err
	}

	return c.JSON(http.StatusOK, toBatchResponse(res))
}

// ChannelToken handles POST /v1/couriers/me/channel-token.
//
// @Summary      Issue a pub/sub capability token
// @Description  Returns a short-lived token the device embeds in every message published on the returned topic.
// @Tags         telemetry
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  channelTokenResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/couriers/me/channel-token [post]
func (h *TelemetryHandler) ChannelToken(c echo.Context) error {
	id, err := ctxCourier(c)
	if err != nil {
		return err
	}

	token, expiresAt, err := h.issuer.IssueChannelToken(id.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, channelTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
		Topic:     h.topicPrefix + id.ID,
	})
}
