package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrStockNotFound          = errors.New("stock no registrado para la tienda")
	ErrProductNotFound        = errors.New("producto no encontrado o inactivo")
	ErrInsufficientStoreStock = errors.New("stock del almacén central insuficiente")
	ErrLockTimeout            = errors.New("tiempo de espera de bloqueo agotado")
	ErrStoreUnavailable       = errors.New("base de datos no disponible")
	// ErrTxConflict deadlock o fallo de serialización; la transacción completa puede reintentarse.
	ErrTxConflict = errors.New("conflicto de transacción")
)

// Códigos de error por evento (taxonomía expuesta al cliente en el reporte de sincronización).
const (
	CodeInvalidSale       = "INVALID_SALE"
	CodeInvalidItem       = "INVALID_ITEM"
	CodeForbiddenShop     = "FORBIDDEN_SHOP"
	CodeTooOld            = "TOO_OLD"
	CodeStockNotFound     = "STOCK_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeLockTimeout       = "LOCK_TIMEOUT"
	CodeInternal          = "ERROR"
)

// SaleError es el error clasificado de la confirmación de una venta.
// Lleva el código de la taxonomía y, según el caso, el producto y las cantidades en conflicto.
type SaleError struct {
	Code      string
	ProductID int64
	Available int64
	Requested int64
	cause     error
}

func (e *SaleError) Error() string {
	switch e.Code {
	case CodeInsufficientStock:
		return fmt.Sprintf("%s: producto %d disponible=%d solicitado=%d", e.Code, e.ProductID, e.Available, e.Requested)
	case CodeStockNotFound, CodeProductNotFound:
		return fmt.Sprintf("%s: producto %d", e.Code, e.ProductID)
	}
	if e.cause != nil {
		return e.Code + ": " + e.cause.Error()
	}
	return e.Code
}

// Unwrap permite errors.Is contra los errores sentinela (ErrInsufficientStock, ErrForbidden, ...)
// y contra la causa original, si la hay.
func (e *SaleError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func (e *SaleError) sentinel() error {
	switch e.Code {
	case CodeInvalidSale, CodeInvalidItem, CodeTooOld:
		return ErrInvalidInput
	case CodeForbiddenShop:
		return ErrForbidden
	case CodeStockNotFound:
		return ErrStockNotFound
	case CodeInsufficientStock:
		return ErrInsufficientStock
	case CodeProductNotFound:
		return ErrProductNotFound
	case CodeLockTimeout:
		return ErrLockTimeout
	}
	return nil
}

// NewSaleError construye un SaleError sin payload.
func NewSaleError(code string) *SaleError {
	return &SaleError{Code: code}
}

// InvalidSale venta mal formada (ids faltantes, fecha ilegible, sin líneas).
func InvalidSale(cause error) *SaleError {
	return &SaleError{Code: CodeInvalidSale, cause: cause}
}

// InvalidItem línea mal formada (producto faltante, cantidad no positiva, precio negativo).
func InvalidItem(cause error) *SaleError {
	return &SaleError{Code: CodeInvalidItem, cause: cause}
}

// StockNotFound no existe fila de stock para (tienda, producto).
func StockNotFound(productID int64) *SaleError {
	return &SaleError{Code: CodeStockNotFound, ProductID: productID}
}

// InsufficientStock on_hand menor a la cantidad agregada solicitada.
func InsufficientStock(productID, available, requested int64) *SaleError {
	return &SaleError{Code: CodeInsufficientStock, ProductID: productID, Available: available, Requested: requested}
}

// ProductNotFound producto eliminado o desactivado desde que se registró el evento.
func ProductNotFound(productID int64) *SaleError {
	return &SaleError{Code: CodeProductNotFound, ProductID: productID}
}

// AsSaleError extrae el SaleError de la cadena de errores, si existe.
func AsSaleError(err error) (*SaleError, bool) {
	var se *SaleError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrorCode devuelve el código de taxonomía para cualquier error de la confirmación.
// Los errores de bloqueo se clasifican aunque no vengan envueltos en SaleError.
func ErrorCode(err error) string {
	if se, ok := AsSaleError(err); ok {
		return se.Code
	}
	switch {
	case errors.Is(err, ErrLockTimeout):
		return CodeLockTimeout
	case errors.Is(err, ErrForbidden):
		return CodeForbiddenShop
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidSale
	}
	return CodeInternal
}
