package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-sync-api/internal/application/stock"
	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
	"github.com/jhoicas/ventas-sync-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake transaccional: RunStock serializa las tx y trabaja sobre una copia que se
// publica solo si fn devuelve nil.
// ──────────────────────────────────────────────────────────────────────────────

type key struct{ shop, product int64 }

type state struct {
	stock    map[key]entity.StockRow
	products map[int64]entity.Product
}

func (s state) clone() state {
	c := state{stock: map[key]entity.StockRow{}, products: map[int64]entity.Product{}}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

type fakeDB struct {
	mu sync.Mutex
	st state
}

func newFakeDB() *fakeDB {
	return &fakeDB{st: state{
		stock: map[key]entity.StockRow{{1, 10}: {ShopID: 1, ProductID: 10, OnHand: 2, SoldCount: 4}},
		products: map[int64]entity.Product{
			10: {ID: 10, Name: "Arroz", TotalStock: 50, Active: true},
			11: {ID: 11, Name: "Café", TotalStock: 5, Active: true},
			12: {ID: 12, Name: "Descontinuado", TotalStock: 100, Active: false},
		},
	}}
}

func (db *fakeDB) RunStock(_ context.Context, fn func(repository.StockRepository, repository.ProductRepository) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	work := db.st.clone()
	r := &fakeRepo{st: &work}
	if err := fn(r, r); err != nil {
		return err
	}
	db.st = work
	return nil
}

// reader repositorio de solo lectura sobre el estado confirmado.
func (db *fakeDB) reader() *fakeRepo {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := db.st.clone()
	return &fakeRepo{st: &c}
}

type fakeRepo struct{ st *state }

func (r *fakeRepo) Get(_ context.Context, shopID, productID int64) (*entity.StockRow, error) {
	row, ok := r.st.stock[key{shopID, productID}]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *fakeRepo) LockStock(ctx context.Context, shopID, productID int64) (*entity.StockRow, error) {
	row, _ := r.Get(ctx, shopID, productID)
	if row == nil {
		return nil, domain.ErrStockNotFound
	}
	return row, nil
}

func (r *fakeRepo) DecrementStock(context.Context, int64, int64, int64) error {
	return errors.New("no usado")
}

func (r *fakeRepo) IncrementSoldCount(context.Context, int64, int64, int64) error {
	return errors.New("no usado")
}

func (r *fakeRepo) IncrementOnHand(_ context.Context, shopID, productID, quantity int64) (*entity.StockRow, error) {
	k := key{shopID, productID}
	row, ok := r.st.stock[k]
	if !ok {
		row = entity.StockRow{ShopID: shopID, ProductID: productID}
	}
	row.OnHand += quantity
	r.st.stock[k] = row
	return &row, nil
}

func (r *fakeRepo) GetActive(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeRepo) LockForTransfer(ctx context.Context, id int64) (*entity.Product, error) {
	p, _ := r.GetByID(ctx, id)
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeRepo) DecrementTotalStock(_ context.Context, id, quantity int64) error {
	p := r.st.products[id]
	if p.TotalStock < quantity {
		return domain.ErrInsufficientStoreStock
	}
	p.TotalStock -= quantity
	r.st.products[id] = p
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

var (
	admin   = entity.Actor{SellerID: 1, Role: entity.RoleAdmin}
	seller1 = entity.Actor{SellerID: 7, ShopID: 1, Role: entity.RoleSeller}
	seller2 = entity.Actor{SellerID: 8, ShopID: 2, Role: entity.RoleSeller}
)

func newUseCase(db *fakeDB) *stock.StockUseCase {
	return stock.NewStockUseCase(db, db.reader(), logger.Nop())
}

func TestGetStock(t *testing.T) {
	uc := newUseCase(newFakeDB())

	out, err := uc.GetStock(context.Background(), seller1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.OnHand)
	assert.Equal(t, int64(4), out.SoldCount)

	_, err = uc.GetStock(context.Background(), seller2, 1, 10)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.GetStock(context.Background(), admin, 1, 99)
	assert.True(t, errors.Is(err, domain.ErrStockNotFound))

	_, err = uc.GetStock(context.Background(), admin, 0, 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestTransferStock_SumaATiendaYDescuentaAlmacen(t *testing.T) {
	db := newFakeDB()
	uc := newUseCase(db)

	out, err := uc.TransferStock(context.Background(), seller1, 1, 10, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.OnHand)
	assert.Equal(t, int64(4), out.SoldCount, "sold_count no cambia")
	assert.Equal(t, int64(42), db.st.products[10].TotalStock)
}

func TestTransferStock_CreaFilaSiNoExiste(t *testing.T) {
	db := newFakeDB()
	uc := newUseCase(db)

	out, err := uc.TransferStock(context.Background(), admin, 3, 11, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.OnHand)
	assert.Equal(t, int64(0), db.st.products[11].TotalStock)
}

func TestTransferStock_Errores(t *testing.T) {
	db := newFakeDB()
	uc := newUseCase(db)

	_, err := uc.TransferStock(context.Background(), admin, 1, 11, 6)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStoreStock))
	assert.Equal(t, int64(5), db.st.products[11].TotalStock, "sin cambios tras el rollback")

	_, err = uc.TransferStock(context.Background(), admin, 1, 12, 1)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	_, err = uc.TransferStock(context.Background(), admin, 1, 99, 1)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	_, err = uc.TransferStock(context.Background(), seller2, 1, 10, 1)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.TransferStock(context.Background(), admin, 1, 10, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
