package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/application/sales"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// receiptDownloader contrato mínimo del caso de uso de comprobantes.
type receiptDownloader interface {
	DownloadReceipt(ctx context.Context, actor entity.Actor, saleID int64) ([]byte, string, error)
}

// SaleHandler confirmación individual de ventas (modo en línea) y comprobantes.
type SaleHandler struct {
	engine  sales.SaleConfirmer
	receipt receiptDownloader
	now     func() time.Time
}

// NewSaleHandler construye el handler.
func NewSaleHandler(engine sales.SaleConfirmer, receipt receiptDownloader) *SaleHandler {
	return &SaleHandler{engine: engine, receipt: receipt, now: time.Now}
}

// Confirm godoc
// @Summary      Confirmar una venta en línea
// @Description  Mismo motor que la sincronización offline. Si no llega client_id el servidor genera uno.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shopId  path  int                     true  "ID de la tienda"
// @Param        body    body  dto.ConfirmSaleRequest  true  "Líneas de la venta"
// @Success      201     {object}  dto.SaleResponse  "venta creada"
// @Success      200     {object}  dto.SaleResponse  "client_id ya confirmado (duplicate)"
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Failure      503     {object}  dto.ErrorResponse
// @Failure      504     {object}  dto.ErrorResponse
// @Router       /api/sales/shops/{shopId} [post]
func (h *SaleHandler) Confirm(c *fiber.Ctx) error {
	shopID, ok := paramID(c, "shopId")
	if !ok {
		return badParam(c, "shopId")
	}
	var in dto.ConfirmSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		clientID = uuid.NewString()
	}

	ev, err := sales.ConfirmRequestToEvent(shopID, clientID, in, h.now())
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.engine.Confirm(c.UserContext(), GetActor(c), ev)
	if err != nil {
		return writeError(c, err)
	}

	status := fiber.StatusCreated
	if res.Status == entity.SyncStatusDuplicate {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(sales.ToSaleResponse(res))
}

// Receipt godoc
// @Summary      Descargar comprobante de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	saleID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	pdf, filename, err := h.receipt.DownloadReceipt(c.UserContext(), GetActor(c), saleID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
