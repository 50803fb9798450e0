package sales

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
)

// MaxLineQuantity tope por línea; evita desbordes al agregar cantidades por producto.
const MaxLineQuantity = 1_000_000

// Formatos aceptados para client_created_at además de RFC 3339.
var clientTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DecodeSaleEvent decodifica un evento crudo del lote. Si el JSON no tiene la forma esperada
// devuelve INVALID_SALE junto con el client_id que se haya podido rescatar (para el reporte).
func DecodeSaleEvent(raw json.RawMessage, now time.Time) (entity.SaleEvent, string, error) {
	var req dto.SaleEventRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return entity.SaleEvent{}, salvageClientID(raw), domain.InvalidSale(fmt.Errorf("decodificar evento: %w", err))
	}
	ev, err := ToSaleEvent(req, now)
	return ev, req.ClientID, err
}

// ToSaleEvent convierte el request etiquetado al tipo estricto. Solo valida forma y tipos
// (ids enteros, fecha legible); las reglas de negocio (cantidades positivas, etc.) las aplica el motor.
func ToSaleEvent(req dto.SaleEventRequest, now time.Time) (entity.SaleEvent, error) {
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" || len(clientID) > 255 {
		return entity.SaleEvent{}, domain.InvalidSale(errors.New("client_id requerido"))
	}
	shopID, err := parseID(req.ShopID)
	if err != nil {
		return entity.SaleEvent{}, domain.InvalidSale(fmt.Errorf("shop_id: %w", err))
	}
	createdAt, err := parseClientTime(req.ClientCreatedAt, now)
	if err != nil {
		return entity.SaleEvent{}, domain.InvalidSale(err)
	}
	lines, err := toLines(req.Items)
	if err != nil {
		return entity.SaleEvent{}, err
	}
	return entity.SaleEvent{
		ClientID:        clientID,
		ShopID:          shopID,
		ClientCreatedAt: createdAt,
		Lines:           lines,
		Offline:         true,
	}, nil
}

// ConfirmRequestToEvent arma el evento para la confirmación individual (tienda tomada de la ruta).
func ConfirmRequestToEvent(shopID int64, clientID string, req dto.ConfirmSaleRequest, now time.Time) (entity.SaleEvent, error) {
	createdAt, err := parseClientTime(req.ClientCreatedAt, now)
	if err != nil {
		return entity.SaleEvent{}, domain.InvalidSale(err)
	}
	lines, err := toLines(req.Items)
	if err != nil {
		return entity.SaleEvent{}, err
	}
	return entity.SaleEvent{
		ClientID:        clientID,
		ShopID:          shopID,
		ClientCreatedAt: createdAt,
		Lines:           lines,
	}, nil
}

func toLines(items []dto.SaleLineRequest) ([]entity.LineRequest, error) {
	lines := make([]entity.LineRequest, 0, len(items))
	for i, it := range items {
		pid, err := parseID(it.ProductID)
		if err != nil {
			return nil, domain.InvalidItem(fmt.Errorf("línea %d product_id: %w", i, err))
		}
		qty, err := parseID(it.Quantity)
		if err != nil {
			return nil, domain.InvalidItem(fmt.Errorf("línea %d quantity: %w", i, err))
		}
		lines = append(lines, entity.LineRequest{
			ProductID:          pid,
			Quantity:           qty,
			RequestedUnitPrice: it.RequestedUnitPrice,
		})
	}
	return lines, nil
}

// parseID acepta solo enteros; "3.0", "abc" o vacío son inválidos. El signo se valida después.
func parseID(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, errors.New("requerido")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("entero inválido %q", s)
	}
	return v, nil
}

func parseClientTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range clientTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("client_created_at ilegible %q", s)
}

// salvageClientID intenta leer solo client_id de un evento que no decodifica completo.
func salvageClientID(raw json.RawMessage) string {
	var probe struct {
		ClientID json.RawMessage `json:"client_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.ClientID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(probe.ClientID, &s); err == nil {
		return s
	}
	return strings.Trim(string(probe.ClientID), `"`)
}
