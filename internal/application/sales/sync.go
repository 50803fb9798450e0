package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-sync-api/internal/application/dto"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/pkg/logger"
)

// DefaultMaxBatch tope de eventos por lote si no se configura otro.
const DefaultMaxBatch = 500

// SyncUseCase coordinador de sincronización offline: procesa un lote de eventos en orden,
// cada uno en su propia transacción, y arma el reporte por evento.
type SyncUseCase struct {
	engine   SaleConfirmer
	log      *logger.Logger
	tracer   trace.Tracer
	maxBatch int
	now      func() time.Time
}

// NewSyncUseCase construye el coordinador.
func NewSyncUseCase(engine SaleConfirmer, log *logger.Logger, maxBatch int) *SyncUseCase {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &SyncUseCase{
		engine:   engine,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		maxBatch: maxBatch,
		now:      time.Now,
	}
}

// SyncBatch procesa el lote. Un evento fallido no afecta a los demás; solo la caída de la base
// (o la cancelación del contexto) corta el lote y devuelve error.
func (uc *SyncUseCase) SyncBatch(ctx context.Context, actor entity.Actor, events []json.RawMessage) (*dto.SyncResponse, error) {
	if actor.Role != entity.RoleAdmin && actor.Role != entity.RoleSeller {
		return nil, domain.ErrForbidden
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: lote vacío", domain.ErrInvalidInput)
	}
	if len(events) > uc.maxBatch {
		return nil, fmt.Errorf("%w: el lote excede %d eventos", domain.ErrInvalidInput, uc.maxBatch)
	}

	batchID := uuid.NewString()
	ctx, span := uc.tracer.Start(ctx, "sales.SyncBatch", trace.WithAttributes(
		attribute.String("sync.batch_id", batchID),
		attribute.Int("sync.size", len(events)),
	))
	defer span.End()

	log := uc.log.WithContext(ctx)
	start := uc.now()
	results := make([]dto.SyncResult, 0, len(events))
	counts := map[string]int{}

	for i, raw := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := uc.processEvent(ctx, actor, raw)
		if err != nil {
			log.Error().Err(err).
				Str("batch_id", batchID).
				Int("index", i).
				Str("client_id", result.ClientID).
				Msg("lote de sincronización abortado")
			span.RecordError(err)
			return nil, err
		}
		if result.Status == entity.SyncStatusError {
			log.Warn().
				Str("batch_id", batchID).
				Str("client_id", result.ClientID).
				Str("code", result.Code).
				Int64("product_id", result.ProductID).
				Msg("evento de venta rechazado")
		}
		counts[result.Status]++
		results = append(results, result)
	}

	span.SetAttributes(
		attribute.Int("sync.synced", counts[entity.SyncStatusSynced]),
		attribute.Int("sync.duplicate", counts[entity.SyncStatusDuplicate]),
		attribute.Int("sync.error", counts[entity.SyncStatusError]),
	)
	log.Info().
		Str("batch_id", batchID).
		Int64("seller_id", actor.SellerID).
		Int("total", len(events)).
		Int("synced", counts[entity.SyncStatusSynced]).
		Int("duplicate", counts[entity.SyncStatusDuplicate]).
		Int("error", counts[entity.SyncStatusError]).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("lote de sincronización procesado")

	return &dto.SyncResponse{BatchID: batchID, Results: results}, nil
}

// processEvent devuelve error solo si el lote debe abortarse.
func (uc *SyncUseCase) processEvent(ctx context.Context, actor entity.Actor, raw json.RawMessage) (dto.SyncResult, error) {
	ev, clientID, err := DecodeSaleEvent(raw, uc.now())
	if err != nil {
		return errorResult(clientID, err), nil
	}

	res, err := uc.engine.Confirm(ctx, actor, ev)
	if err != nil {
		if isBatchFatal(ctx, err) {
			return dto.SyncResult{ClientID: ev.ClientID}, err
		}
		return errorResult(ev.ClientID, err), nil
	}
	return dto.SyncResult{
		ClientID: ev.ClientID,
		Status:   res.Status,
		SaleID:   res.Sale.ID,
	}, nil
}

func isBatchFatal(ctx context.Context, err error) bool {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return true
	}
	// Cancelación del request: el timeout de bloqueo se reporta por evento, no corta el lote.
	return ctx.Err() != nil && !errors.Is(err, domain.ErrLockTimeout)
}

func errorResult(clientID string, err error) dto.SyncResult {
	r := dto.SyncResult{
		ClientID: clientID,
		Status:   entity.SyncStatusError,
		Code:     domain.ErrorCode(err),
	}
	if se, ok := domain.AsSaleError(err); ok {
		r.ProductID = se.ProductID
		if se.Code == domain.CodeInsufficientStock {
			available := se.Available
			r.Available = &available
			r.Requested = se.Requested
		}
	}
	return r
}
