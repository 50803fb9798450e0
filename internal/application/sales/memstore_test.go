package sales_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-sync-api/internal/domain"
	"github.com/jhoicas/ventas-sync-api/internal/domain/entity"
	"github.com/jhoicas/ventas-sync-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memDB: almacén en memoria con semántica de READ COMMITTED.
//   - LockStock / LockForTransfer toman un mutex por fila hasta el fin de la tx (FOR UPDATE).
//   - Create toma un mutex por client_id (índice UNIQUE) y falla con ErrDuplicate si ya hay commit.
//   - Las escrituras quedan en la tx y se aplican solo en commit.
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ shop, product int64 }

type memDB struct {
	mu         sync.Mutex
	nextSaleID int64
	nextItemID int64
	sales      map[int64]*entity.Sale
	byClient   map[string]int64
	items      map[int64][]*entity.SaleLineItem
	stock      map[stockKey]*entity.StockRow
	products   map[int64]*entity.Product
	locks      map[string]*sync.Mutex

	// Hooks de test.
	beginErrs    []error            // errores a devolver en los siguientes RunSale (uno por llamada)
	beforeCreate func(clientID string)
	runs         int
}

func newMemDB() *memDB {
	return &memDB{
		sales:    map[int64]*entity.Sale{},
		byClient: map[string]int64{},
		items:    map[int64][]*entity.SaleLineItem{},
		stock:    map[stockKey]*entity.StockRow{},
		products: map[int64]*entity.Product{},
		locks:    map[string]*sync.Mutex{},
	}
}

func (db *memDB) addProduct(id int64, sell, cost, tax string, active bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products[id] = &entity.Product{
		ID:        id,
		Name:      fmt.Sprintf("Producto %d", id),
		SellPrice: decimal.RequireFromString(sell),
		CostPrice: decimal.RequireFromString(cost),
		TaxRate:   decimal.RequireFromString(tax),
		Active:    active,
	}
}

func (db *memDB) addStock(shop, product, onHand int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stock[stockKey{shop, product}] = &entity.StockRow{ShopID: shop, ProductID: product, OnHand: onHand}
}

func (db *memDB) stockRow(shop, product int64) entity.StockRow {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.stock[stockKey{shop, product}]
}

func (db *memDB) saleCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.sales)
}

func (db *memDB) lineCount(saleID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.items[saleID])
}

// commitSale inserta una venta ya confirmada, por fuera de cualquier tx.
func (db *memDB) commitSale(s *entity.Sale) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextSaleID++
	s.ID = db.nextSaleID
	cp := *s
	db.sales[cp.ID] = &cp
	db.byClient[cp.ClientID] = cp.ID
}

func (db *memDB) lockFor(name string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.locks[name]
	if !ok {
		m = &sync.Mutex{}
		db.locks[name] = m
	}
	return m
}

// RunSale implementa sales.SaleTxRunner.
func (db *memDB) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	db.mu.Lock()
	db.runs++
	var beginErr error
	if len(db.beginErrs) > 0 {
		beginErr, db.beginErrs = db.beginErrs[0], db.beginErrs[1:]
	}
	db.mu.Unlock()
	if beginErr != nil {
		return beginErr
	}

	tx := &memTx{
		db:       db,
		held:     map[string]*sync.Mutex{},
		items:    map[int64][]*entity.SaleLineItem{},
		stock:    map[stockKey]*entity.StockRow{},
		products: map[int64]*entity.Product{},
	}
	defer tx.release()

	if err := fn(&memSaleRepo{db: db, tx: tx}, &memStockRepo{db: db, tx: tx}, &memProductRepo{db: db, tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (db *memDB) saleRepo() *memSaleRepo       { return &memSaleRepo{db: db} }
func (db *memDB) productRepo() *memProductRepo { return &memProductRepo{db: db} }

type memTx struct {
	db       *memDB
	held     map[string]*sync.Mutex
	sales    []*entity.Sale
	items    map[int64][]*entity.SaleLineItem
	stock    map[stockKey]*entity.StockRow
	products map[int64]*entity.Product
}

func (tx *memTx) acquire(name string) {
	if _, ok := tx.held[name]; ok {
		return
	}
	m := tx.db.lockFor(name)
	m.Lock()
	tx.held[name] = m
}

func (tx *memTx) release() {
	for _, m := range tx.held {
		m.Unlock()
	}
	tx.held = nil
}

func (tx *memTx) commit() {
	db := tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range tx.sales {
		db.sales[s.ID] = s
		db.byClient[s.ClientID] = s.ID
	}
	for id, its := range tx.items {
		db.items[id] = append(db.items[id], its...)
	}
	for k, row := range tx.stock {
		db.stock[k] = row
	}
	for id, p := range tx.products {
		db.products[id] = p
	}
}

// stagedStock copia de trabajo de la fila (bajo lock); nil si no existe.
func (tx *memTx) stagedStock(k stockKey) *entity.StockRow {
	if row, ok := tx.stock[k]; ok {
		return row
	}
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	row, ok := tx.db.stock[k]
	if !ok {
		return nil
	}
	cp := *row
	tx.stock[k] = &cp
	return &cp
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

type memSaleRepo struct {
	db *memDB
	tx *memTx
}

func (r *memSaleRepo) FindByClientID(_ context.Context, clientID string) (*entity.Sale, error) {
	if r.tx != nil {
		for _, s := range r.tx.sales {
			if s.ClientID == clientID {
				cp := *s
				return &cp, nil
			}
		}
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	id, ok := r.db.byClient[clientID]
	if !ok {
		return nil, nil
	}
	cp := *r.db.sales[id]
	return &cp, nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if r.tx == nil {
		return fmt.Errorf("memSaleRepo.Create fuera de tx")
	}
	if hook := r.db.beforeCreate; hook != nil {
		hook(sale.ClientID)
	}
	r.tx.acquire("client:" + sale.ClientID)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.byClient[sale.ClientID]; ok {
		return domain.ErrDuplicate
	}
	r.db.nextSaleID++
	sale.ID = r.db.nextSaleID
	cp := *sale
	r.tx.sales = append(r.tx.sales, &cp)
	return nil
}

func (r *memSaleRepo) CreateLineItems(_ context.Context, saleID int64, items []*entity.SaleLineItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, it := range items {
		r.db.nextItemID++
		cp := *it
		cp.ID = r.db.nextItemID
		cp.SaleID = saleID
		r.tx.items[saleID] = append(r.tx.items[saleID], &cp)
	}
	return nil
}

func (r *memSaleRepo) ListLineItems(_ context.Context, saleID int64) ([]*entity.SaleLineItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]*entity.SaleLineItem(nil), r.db.items[saleID]...), nil
}

type memStockRepo struct {
	db *memDB
	tx *memTx
}

func (r *memStockRepo) Get(_ context.Context, shopID, productID int64) (*entity.StockRow, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	row, ok := r.db.stock[stockKey{shopID, productID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *memStockRepo) LockStock(_ context.Context, shopID, productID int64) (*entity.StockRow, error) {
	k := stockKey{shopID, productID}
	r.tx.acquire(fmt.Sprintf("stock:%d:%d", shopID, productID))
	row := r.tx.stagedStock(k)
	if row == nil {
		return nil, domain.ErrStockNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memStockRepo) DecrementStock(_ context.Context, shopID, productID, quantity int64) error {
	row := r.tx.stagedStock(stockKey{shopID, productID})
	if row == nil {
		return domain.ErrStockNotFound
	}
	if row.OnHand < quantity {
		return domain.ErrInsufficientStock
	}
	row.OnHand -= quantity
	return nil
}

func (r *memStockRepo) IncrementSoldCount(_ context.Context, shopID, productID, quantity int64) error {
	row := r.tx.stagedStock(stockKey{shopID, productID})
	if row == nil {
		return domain.ErrStockNotFound
	}
	row.SoldCount += quantity
	return nil
}

func (r *memStockRepo) IncrementOnHand(_ context.Context, shopID, productID, quantity int64) (*entity.StockRow, error) {
	k := stockKey{shopID, productID}
	r.tx.acquire(fmt.Sprintf("stock:%d:%d", shopID, productID))
	row := r.tx.stagedStock(k)
	if row == nil {
		row = &entity.StockRow{ShopID: shopID, ProductID: productID}
		r.tx.stock[k] = row
	}
	row.OnHand += quantity
	cp := *row
	return &cp, nil
}

type memProductRepo struct {
	db *memDB
	tx *memTx
}

func (r *memProductRepo) GetActive(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil || !p.Active {
		return nil, err
	}
	return p, nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) LockForTransfer(_ context.Context, id int64) (*entity.Product, error) {
	r.tx.acquire(fmt.Sprintf("product:%d", id))
	if p, ok := r.tx.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	r.tx.products[id] = &cp
	out := cp
	return &out, nil
}

func (r *memProductRepo) DecrementTotalStock(_ context.Context, id, quantity int64) error {
	p, ok := r.tx.products[id]
	if !ok {
		return fmt.Errorf("producto %d sin bloquear", id)
	}
	if p.TotalStock < quantity {
		return domain.ErrInsufficientStoreStock
	}
	p.TotalStock -= quantity
	return nil
}
