package http

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

type batchSyncer interface {
	SyncBatch(ctx context.Context, actor entity.Actor, events []json.RawMessage) (*dto.SyncResponse, error)
}

type statusLookup interface {
	SyncStatus(ctx context.Context, actor entity.Actor, clientID string) (*dto.SyncStatusResponse, error)
}

// SyncHandler sincronización de ventas registradas sin conexión.
type SyncHandler struct {
	sync   batchSyncer
	status statusLookup
}

// NewSyncHandler construye el handler.
func NewSyncHandler(sync batchSyncer, status statusLookup) *SyncHandler {
	return &SyncHandler{sync: sync, status: status}
}

// OfflineSales godoc
// @Summary      Sincronizar lote de ventas offline
// @Description  Cada evento se confirma en su propia transacción. El reporte conserva el orden del lote;
// @Description  un evento con error no afecta a los demás y puede reenviarse tal cual.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  true  "Lote de eventos"
// @Success      200   {object}  dto.SyncResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sync/offline-sales [post]
func (h *SyncHandler) OfflineSales(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: se espera {\"sales\": [...]}"})
	}
	out, err := h.sync.SyncBatch(c.UserContext(), GetActor(c), in.Sales)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Consultar si un client_id ya fue confirmado
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        client_id  query  string  true  "client_id del evento"
// @Success      200        {object}  dto.SyncStatusResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	out, err := h.status.SyncStatus(c.UserContext(), GetActor(c), c.Query("client_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
