package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

type stockService interface {
	GetStock(ctx context.Context, actor entity.Actor, shopID, productID int64) (*dto.StockResponse, error)
	TransferStock(ctx context.Context, actor entity.Actor, shopID, productID, quantity int64) (*dto.StockResponse, error)
}

// StockHandler consulta y abastecimiento del stock por tienda.
type StockHandler struct {
	uc stockService
}

// NewStockHandler construye el handler.
func NewStockHandler(uc stockService) *StockHandler {
	return &StockHandler{uc: uc}
}

// Get godoc
// @Summary      Stock de un producto en una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        shopId     path  int  true  "ID de la tienda"
// @Param        productId  path  int  true  "ID del producto"
// @Success      200        {object}  dto.StockResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/stock/shops/{shopId}/products/{productId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	shopID, ok := paramID(c, "shopId")
	if !ok {
		return badParam(c, "shopId")
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return badParam(c, "productId")
	}
	out, err := h.uc.GetStock(c.UserContext(), GetActor(c), shopID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Transferir stock del almacén central a la tienda
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        shopId     path  int                       true  "ID de la tienda"
// @Param        productId  path  int                       true  "ID del producto"
// @Param        body       body  dto.TransferStockRequest  true  "Cantidad"
// @Success      200        {object}  dto.StockResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/stock/shops/{shopId}/products/{productId}/add [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	shopID, ok := paramID(c, "shopId")
	if !ok {
		return badParam(c, "shopId")
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return badParam(c, "productId")
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positivo"})
	}
	out, err := h.uc.TransferStock(c.UserContext(), GetActor(c), shopID, productID, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
