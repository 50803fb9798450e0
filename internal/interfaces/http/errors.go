package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
)

// writeError traduce errores de dominio a HTTP. Los SaleError van primero porque
// también envuelven sentinelas genéricos (ErrInvalidInput, ErrForbidden).
func writeError(c *fiber.Ctx, err error) error {
	if se, ok := domain.AsSaleError(err); ok {
		return writeSaleError(c, se)
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrStockNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: domain.CodeStockNotFound, Message: "stock no registrado para la tienda"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: domain.CodeProductNotFound, Message: "producto no encontrado o inactivo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStoreStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STORE_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: domain.CodeLockTimeout, Message: "tiempo de espera agotado, reintente"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "base de datos no disponible, intente más tarde"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func writeSaleError(c *fiber.Ctx, se *domain.SaleError) error {
	body := dto.ErrorResponse{Code: se.Code, Message: se.Error(), ProductID: se.ProductID}
	status := fiber.StatusInternalServerError
	switch se.Code {
	case domain.CodeInvalidSale, domain.CodeInvalidItem, domain.CodeTooOld:
		status = fiber.StatusUnprocessableEntity
	case domain.CodeForbiddenShop:
		status = fiber.StatusForbidden
	case domain.CodeStockNotFound, domain.CodeProductNotFound:
		status = fiber.StatusNotFound
	case domain.CodeInsufficientStock:
		status = fiber.StatusConflict
		available := se.Available
		body.Available = &available
		body.Requested = se.Requested
	case domain.CodeLockTimeout:
		status = fiber.StatusGatewayTimeout
	}
	return c.Status(status).JSON(body)
}

// paramID lee un id positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: name + " debe ser un entero positivo"})
}
