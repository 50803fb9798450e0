package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
	domainsales "github.com/jhoicas/ventas-sync-api/internal/domain/sales"
	"github.com/jhoicas/ventas-sync-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/ventas-sync-api/internal/application/sales"

// EngineConfig parámetros del motor.
type EngineConfig struct {
	// MaxRetries intentos totales ante deadlock o fallo de serialización (0 o 1 = sin reintento).
	MaxRetries int
	// MaxEventAge antigüedad máxima de un evento offline; 0 = sin límite.
	MaxEventAge time.Duration
}

// Result resultado de confirmar un evento: synced (venta nueva) o duplicate (venta existente).
type Result struct {
	Status string
	Sale   *entity.Sale
}

// ConfirmSaleUseCase motor de confirmación de ventas: valida el evento, bloquea las filas de stock,
// valoriza, inserta venta + líneas y descuenta stock, todo en una sola transacción por evento.
type ConfirmSaleUseCase struct {
	txRunner SaleTxRunner
	saleRepo repository.SaleRepository // atado al pool; relectura tras conflicto de client_id
	cache    IdempotencyCache
	log      *logger.Logger
	tracer   trace.Tracer
	cfg      EngineConfig
	now      func() time.Time
}

// NewConfirmSaleUseCase construye el motor. cache puede ser nil.
func NewConfirmSaleUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	cache IdempotencyCache,
	log *logger.Logger,
	cfg EngineConfig,
) *ConfirmSaleUseCase {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &ConfirmSaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		cache:    cache,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Confirm confirma un evento de venta para el actor autenticado.
//
// Retorna:
//   - Result{synced} si se creó la venta.
//   - Result{duplicate} con la venta original si el client_id ya existía (sin escrituras).
//   - *domain.SaleError clasificado, o un error de infraestructura; en ambos casos nada queda escrito.
func (uc *ConfirmSaleUseCase) Confirm(ctx context.Context, actor entity.Actor, ev entity.SaleEvent) (res *Result, err error) {
	ctx, span := uc.tracer.Start(ctx, "sales.Confirm", trace.WithAttributes(
		attribute.String("sale.client_id", ev.ClientID),
		attribute.Int64("sale.shop_id", ev.ShopID),
		attribute.Int("sale.lines", len(ev.Lines)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.ErrorCode(err))
		} else {
			span.SetAttributes(attribute.String("sale.status", res.Status), attribute.Int64("sale.id", res.Sale.ID))
		}
		span.End()
	}()

	// 1) Autorización: un vendedor solo opera su tienda.
	if !actor.CanOperateShop(ev.ShopID) {
		return nil, domain.NewSaleError(domain.CodeForbiddenShop)
	}
	if ev.ClientID == "" {
		return nil, domain.InvalidSale(errors.New("client_id requerido"))
	}

	// 2) Idempotencia, atajo por caché (solo contiene ventas ya confirmadas).
	if sale := uc.cachedSale(ctx, ev.ClientID); sale != nil {
		return &Result{Status: entity.SyncStatusDuplicate, Sale: sale}, nil
	}

	err = uc.withRetry(ctx, func() error {
		res = nil
		return uc.txRunner.RunSale(ctx, func(
			saleRepo repository.SaleRepository,
			stockRepo repository.StockRepository,
			productRepo repository.ProductRepository,
		) error {
			var txErr error
			res, txErr = uc.confirmInTx(ctx, actor, ev, saleRepo, stockRepo, productRepo)
			return txErr
		})
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otro request insertó el mismo client_id entre la verificación y el INSERT:
		// la tx ya hizo rollback, se devuelve la venta ganadora.
		res, err = uc.resolveDuplicate(ctx, ev.ClientID)
	}
	if err != nil {
		return nil, err
	}

	uc.remember(ctx, res.Sale)
	return res, nil
}

func (uc *ConfirmSaleUseCase) confirmInTx(
	ctx context.Context,
	actor entity.Actor,
	ev entity.SaleEvent,
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) (*Result, error) {
	// 2) Idempotencia dentro de la tx.
	existing, err := saleRepo.FindByClientID(ctx, ev.ClientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Result{Status: entity.SyncStatusDuplicate, Sale: existing}, nil
	}

	// 3) Validación estructural, antes de tocar stock.
	if err := uc.validate(ev); err != nil {
		return nil, err
	}

	// 4) Cantidad agregada por producto (una línea repetida no evade el control de stock).
	aggregated, order := domainsales.AggregateQuantities(ev.Lines)

	// 5) Bloqueo de todas las filas en orden ascendente y verificación, sin escribir nada aún.
	for _, productID := range order {
		row, err := stockRepo.LockStock(ctx, ev.ShopID, productID)
		if err != nil {
			if errors.Is(err, domain.ErrStockNotFound) {
				return uc.stockFailure(ctx, saleRepo, ev.ClientID, domain.StockNotFound(productID))
			}
			return nil, err
		}
		if row.OnHand < aggregated[productID] {
			return uc.stockFailure(ctx, saleRepo, ev.ClientID,
				domain.InsufficientStock(productID, row.OnHand, aggregated[productID]))
		}
	}

	// 6) Valorización con precios de catálogo.
	catalog := make(map[int64]*entity.Product, len(order))
	for _, productID := range order {
		p, err := productRepo.GetActive(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ProductNotFound(productID)
		}
		catalog[productID] = p
	}

	var totals domainsales.Totals
	items := make([]*entity.SaleLineItem, 0, len(ev.Lines))
	for _, line := range ev.Lines {
		p := catalog[line.ProductID]
		priced := domainsales.PriceLine(domainsales.CatalogPrice{
			SellPrice: p.SellPrice,
			CostPrice: p.CostPrice,
			TaxRate:   p.TaxRate,
		}, line.Quantity, line.RequestedUnitPrice)
		totals.Add(priced)
		items = append(items, &entity.SaleLineItem{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      priced.UnitPrice,
			DiscountAmount: priced.Discount,
			TaxAmount:      priced.Tax,
			LineTotal:      priced.LineTotal,
			ProfitAmount:   priced.Profit,
		})
	}

	// 7) Persistencia: cabecera, líneas y descuento de stock por producto.
	now := uc.now()
	sale := &entity.Sale{
		ShopID:          ev.ShopID,
		SellerID:        actor.SellerID,
		Subtotal:        totals.Subtotal,
		TaxTotal:        totals.TaxTotal,
		DiscountTotal:   totals.DiscountTotal,
		GrandTotal:      totals.GrandTotal(),
		PaymentStatus:   entity.PaymentStatusPaid,
		ClientID:        ev.ClientID,
		ClientCreatedAt: ev.ClientCreatedAt,
		CreatedAt:       now,
	}
	if ev.Offline {
		sale.SyncedAt = &now
	}
	if err := saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	for _, it := range items {
		it.SaleID = sale.ID
	}
	if err := saleRepo.CreateLineItems(ctx, sale.ID, items); err != nil {
		return nil, err
	}
	for _, productID := range order {
		qty := aggregated[productID]
		if err := stockRepo.DecrementStock(ctx, ev.ShopID, productID, qty); err != nil {
			return nil, err
		}
		if err := stockRepo.IncrementSoldCount(ctx, ev.ShopID, productID, qty); err != nil {
			return nil, err
		}
	}

	// 8)
	return &Result{Status: entity.SyncStatusSynced, Sale: sale}, nil
}

// stockFailure vuelve a buscar el client_id antes de reportar el fallo de stock: si el bloqueo
// esperó a otra tx con el mismo client_id, el stock ya refleja esa venta y el resultado es duplicate.
func (uc *ConfirmSaleUseCase) stockFailure(ctx context.Context, saleRepo repository.SaleRepository, clientID string, failure error) (*Result, error) {
	existing, err := saleRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Result{Status: entity.SyncStatusDuplicate, Sale: existing}, nil
	}
	return nil, failure
}

func (uc *ConfirmSaleUseCase) validate(ev entity.SaleEvent) error {
	if ev.ShopID <= 0 {
		return domain.InvalidSale(errors.New("shop_id debe ser positivo"))
	}
	if len(ev.Lines) == 0 {
		return domain.InvalidSale(errors.New("la venta no tiene líneas"))
	}
	if ev.ClientCreatedAt.IsZero() {
		return domain.InvalidSale(errors.New("client_created_at requerido"))
	}
	if ev.Offline && uc.cfg.MaxEventAge > 0 && uc.now().Sub(ev.ClientCreatedAt) > uc.cfg.MaxEventAge {
		return domain.NewSaleError(domain.CodeTooOld)
	}
	for i, l := range ev.Lines {
		if l.ProductID <= 0 {
			return domain.InvalidItem(fmt.Errorf("línea %d: product_id debe ser positivo", i))
		}
		if l.Quantity <= 0 || l.Quantity > MaxLineQuantity {
			return domain.InvalidItem(fmt.Errorf("línea %d: cantidad fuera de rango", i))
		}
		if l.RequestedUnitPrice != nil && l.RequestedUnitPrice.IsNegative() {
			return domain.InvalidItem(fmt.Errorf("línea %d: precio negativo", i))
		}
	}
	return nil
}

// withRetry reintenta la transacción completa solo ante deadlock o fallo de serialización.
func (uc *ConfirmSaleUseCase) withRetry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := op()
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, domain.ErrTxConflict) {
			uc.log.WithContext(ctx).Warn().Err(err).Int("attempt", attempt).Msg("conflicto de transacción, reintentando")
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(uc.cfg.MaxRetries)))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}

func (uc *ConfirmSaleUseCase) resolveDuplicate(ctx context.Context, clientID string) (*Result, error) {
	existing, err := uc.saleRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("releer venta duplicada: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("client_id %q en conflicto pero sin venta visible: %w", clientID, domain.ErrTxConflict)
	}
	return &Result{Status: entity.SyncStatusDuplicate, Sale: existing}, nil
}

func (uc *ConfirmSaleUseCase) cachedSale(ctx context.Context, clientID string) *entity.Sale {
	if uc.cache == nil {
		return nil
	}
	sale, err := uc.cache.Get(ctx, clientID)
	if err != nil {
		uc.log.WithContext(ctx).Warn().Err(err).Str("client_id", clientID).Msg("caché de idempotencia no disponible")
		return nil
	}
	return sale
}

func (uc *ConfirmSaleUseCase) remember(ctx context.Context, sale *entity.Sale) {
	if uc.cache == nil || sale == nil {
		return
	}
	if err := uc.cache.Put(ctx, sale); err != nil {
		uc.log.WithContext(ctx).Warn().Err(err).Str("client_id", sale.ClientID).Msg("no se pudo guardar en caché de idempotencia")
	}
}
