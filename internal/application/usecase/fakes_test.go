package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/application/usecase"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. Reproducen los contratos
// de los repositorios pgx: GetByID devuelve nil sin error si no existe, los
// agregados salen hidratados y Update aplica versionado optimista.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	products    map[string]*entity.Product
	prices      map[string]*entity.PriceComponent
	clients     map[string]*entity.Client
	suppliers   map[string]*entity.Supplier
	sales       map[string]*entity.Sale
	arrivals    map[string]*entity.Arrival
	receipts    map[string]*entity.Receipt
	attachments map[string]*entity.ReceiptAttachment
	// arrivalSales tabla de asociación arribo→ventas.
	arrivalSales map[string][]string
}

func newStore() *store {
	return &store{
		products:     make(map[string]*entity.Product),
		prices:       make(map[string]*entity.PriceComponent),
		clients:      make(map[string]*entity.Client),
		suppliers:    make(map[string]*entity.Supplier),
		sales:        make(map[string]*entity.Sale),
		arrivals:     make(map[string]*entity.Arrival),
		receipts:     make(map[string]*entity.Receipt),
		attachments:  make(map[string]*entity.ReceiptAttachment),
		arrivalSales: make(map[string][]string),
	}
}

func (s *store) pricesFor(productID string) []*entity.PriceComponent {
	var out []*entity.PriceComponent
	for _, pc := range s.prices {
		if pc.ProductID == productID {
			out = append(out, pc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── productos ────────────────────────────────────────────────────────────────

type productRepo struct{ s *store }

func (r productRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.PriceComponents = r.s.pricesFor(id)
	return &cp, nil
}

func (r productRepo) GetByName(name string) (*entity.Product, error) {
	for id, p := range r.s.products {
		if strings.EqualFold(p.Name, name) {
			return r.GetByID(id)
		}
	}
	return nil, nil
}

func (r productRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for id := range r.s.products {
		p, _ := r.GetByID(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r productRepo) Count() (int, error) { return len(r.s.products), nil }

func (r productRepo) Update(p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != p.Version {
		return domain.ErrConflict
	}
	cp := *p
	cp.Version++
	r.s.products[p.ID] = &cp
	return nil
}

func (r productRepo) Delete(id string) error {
	delete(r.s.products, id)
	for pcID, pc := range r.s.prices {
		if pc.ProductID == id {
			delete(r.s.prices, pcID)
		}
	}
	return nil
}

// ── grilla de precios ────────────────────────────────────────────────────────

type priceRepo struct{ s *store }

func (r priceRepo) Create(pc *entity.PriceComponent) error {
	cp := *pc
	r.s.prices[pc.ID] = &cp
	return nil
}

func (r priceRepo) CreateAll(pcs []*entity.PriceComponent) error {
	for _, pc := range pcs {
		if err := r.Create(pc); err != nil {
			return err
		}
	}
	return nil
}

func (r priceRepo) Close(pc *entity.PriceComponent) error {
	cur, ok := r.s.prices[pc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.EffectiveTo = pc.EffectiveTo
	return nil
}

func (r priceRepo) DeleteAll(ids []string) error {
	for _, id := range ids {
		delete(r.s.prices, id)
	}
	return nil
}

func (r priceRepo) ListByProduct(productID string) ([]*entity.PriceComponent, error) {
	return r.s.pricesFor(productID), nil
}

// ── clientes ─────────────────────────────────────────────────────────────────

type clientRepo struct{ s *store }

func (r clientRepo) Create(c *entity.Client) error {
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r clientRepo) List(limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.s.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r clientRepo) Count() (int, error) { return len(r.s.clients), nil }

func (r clientRepo) ListByType(t entity.ClientType) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.s.clients {
		if c.ClientType == t {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r clientRepo) Update(c *entity.Client) error {
	cur, ok := r.s.clients[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != c.Version {
		return domain.ErrConflict
	}
	cp := *c
	cp.Version++
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) Delete(id string) error {
	delete(r.s.clients, id)
	return nil
}

// ── proveedores ──────────────────────────────────────────────────────────────

type supplierRepo struct{ s *store }

func (r supplierRepo) Create(sup *entity.Supplier) error {
	cp := *sup
	r.s.suppliers[sup.ID] = &cp
	return nil
}

func (r supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, sup := range r.s.suppliers {
		cp := *sup
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r supplierRepo) Update(sup *entity.Supplier) error {
	if _, ok := r.s.suppliers[sup.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *sup
	r.s.suppliers[sup.ID] = &cp
	return nil
}

func (r supplierRepo) Delete(id string) error {
	delete(r.s.suppliers, id)
	return nil
}

// ── ventas ───────────────────────────────────────────────────────────────────

type saleRepo struct{ s *store }

func (r saleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r saleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r saleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		cp := *sale
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r saleRepo) Count() (int, error) { return len(r.s.sales), nil }

func (r saleRepo) ListByClient(clientID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.ClientID == clientID {
			cp := *sale
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r saleRepo) ListByProduct(productID string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.ProductID == productID {
			cp := *sale
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r saleRepo) ListByDateRange(start, end time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if !sale.SaleDate.Before(start) && !sale.SaleDate.After(end) {
			cp := *sale
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r saleRepo) Update(sale *entity.Sale) error {
	cur, ok := r.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != sale.Version {
		return domain.ErrConflict
	}
	cp := *sale
	cp.Version++
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r saleRepo) Delete(id string) error {
	delete(r.s.sales, id)
	return nil
}

func (r saleRepo) DetachArrival(saleID, arrivalID string) error {
	sale, ok := r.s.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	var kept []string
	for _, id := range sale.ArrivalIDs {
		if id != arrivalID {
			kept = append(kept, id)
		}
	}
	sale.ArrivalIDs = kept

	var links []string
	for _, id := range r.s.arrivalSales[arrivalID] {
		if id != saleID {
			links = append(links, id)
		}
	}
	r.s.arrivalSales[arrivalID] = links
	return nil
}

// ── arribos ──────────────────────────────────────────────────────────────────

type arrivalRepo struct{ s *store }

func (r arrivalRepo) Create(a *entity.Arrival) error {
	cp := *a
	r.s.arrivals[a.ID] = &cp
	return nil
}

func (r arrivalRepo) GetByID(id string) (*entity.Arrival, error) {
	a, ok := r.s.arrivals[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.SaleIDs = append([]string(nil), r.s.arrivalSales[id]...)
	return &cp, nil
}

func (r arrivalRepo) List(limit, offset int) ([]*entity.Arrival, error) {
	var out []*entity.Arrival
	for id := range r.s.arrivals {
		a, _ := r.GetByID(id)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r arrivalRepo) Count() (int, error) { return len(r.s.arrivals), nil }

func (r arrivalRepo) ListBySupplier(supplierID string) ([]*entity.Arrival, error) {
	var out []*entity.Arrival
	for id, a := range r.s.arrivals {
		if a.SupplierID == supplierID {
			hydrated, _ := r.GetByID(id)
			out = append(out, hydrated)
		}
	}
	return out, nil
}

func (r arrivalRepo) ListByDateRange(start, end time.Time) ([]*entity.Arrival, error) {
	var out []*entity.Arrival
	for id, a := range r.s.arrivals {
		if !a.ArrivalDate.Before(start) && !a.ArrivalDate.After(end) {
			hydrated, _ := r.GetByID(id)
			out = append(out, hydrated)
		}
	}
	return out, nil
}

func (r arrivalRepo) GetByInvoiceNumber(invoiceNumber string) (*entity.Arrival, error) {
	for id, a := range r.s.arrivals {
		if a.InvoiceNumber == invoiceNumber {
			return r.GetByID(id)
		}
	}
	return nil, nil
}

func (r arrivalRepo) Update(a *entity.Arrival) error {
	cur, ok := r.s.arrivals[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != a.Version {
		return domain.ErrConflict
	}
	cp := *a
	cp.Version++
	r.s.arrivals[a.ID] = &cp
	return nil
}

func (r arrivalRepo) Delete(id string) error {
	delete(r.s.arrivals, id)
	delete(r.s.arrivalSales, id)
	return nil
}

func (r arrivalRepo) AttachSale(arrivalID, saleID string) error {
	r.s.arrivalSales[arrivalID] = append(r.s.arrivalSales[arrivalID], saleID)
	if sale, ok := r.s.sales[saleID]; ok {
		sale.ArrivalIDs = append(sale.ArrivalIDs, arrivalID)
	}
	return nil
}

// ── recibos ──────────────────────────────────────────────────────────────────

type receiptRepo struct{ s *store }

func (r receiptRepo) Create(rec *entity.Receipt) error {
	cp := *rec
	r.s.receipts[rec.ID] = &cp
	return nil
}

func (r receiptRepo) GetByID(id string) (*entity.Receipt, error) {
	rec, ok := r.s.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.Attachments = nil
	for _, att := range r.s.attachments {
		if att.ReceiptID == id {
			a := *att
			cp.Attachments = append(cp.Attachments, &a)
		}
	}
	return &cp, nil
}

func (r receiptRepo) ListByClient(clientID string) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for id, rec := range r.s.receipts {
		if rec.ClientID == clientID {
			hydrated, _ := r.GetByID(id)
			out = append(out, hydrated)
		}
	}
	return out, nil
}

func (r receiptRepo) ListByClientAndDateRange(clientID string, start, end time.Time) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for id, rec := range r.s.receipts {
		if rec.ClientID == clientID && !rec.ReceiptDate.Before(start) && !rec.ReceiptDate.After(end) {
			hydrated, _ := r.GetByID(id)
			out = append(out, hydrated)
		}
	}
	return out, nil
}

func (r receiptRepo) Update(rec *entity.Receipt) error {
	cur, ok := r.s.receipts[rec.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != rec.Version {
		return domain.ErrConflict
	}
	cp := *rec
	cp.Version++
	r.s.receipts[rec.ID] = &cp
	return nil
}

func (r receiptRepo) Delete(id string) error {
	delete(r.s.receipts, id)
	for attID, att := range r.s.attachments {
		if att.ReceiptID == id {
			delete(r.s.attachments, attID)
		}
	}
	return nil
}

func (r receiptRepo) AddAttachment(att *entity.ReceiptAttachment) error {
	cp := *att
	r.s.attachments[att.ID] = &cp
	return nil
}

func (r receiptRepo) DeleteAttachment(id string) error {
	delete(r.s.attachments, id)
	return nil
}

func (r receiptRepo) GetAttachment(id string) (*entity.ReceiptAttachment, error) {
	att, ok := r.s.attachments[id]
	if !ok {
		return nil, nil
	}
	cp := *att
	return &cp, nil
}

// ── transacciones, storage y renderer ────────────────────────────────────────

type txRunner struct{ s *store }

func (t txRunner) Run(_ context.Context, fn func(usecase.TxRepos) error) error {
	return fn(usecase.TxRepos{
		Products: productRepo{t.s},
		Prices:   priceRepo{t.s},
		Clients:  clientRepo{t.s},
		Sales:    saleRepo{t.s},
		Arrivals: arrivalRepo{t.s},
		Receipts: receiptRepo{t.s},
	})
}

type memStorage struct{ files map[string][]byte }

func newMemStorage() *memStorage { return &memStorage{files: make(map[string][]byte)} }

func (m *memStorage) Save(path string, data []byte) error {
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Read(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("archivo no encontrado: %s", path)
	}
	return data, nil
}

func (m *memStorage) Delete(path string) error {
	delete(m.files, path)
	return nil
}

type stubRenderer struct{}

func (stubRenderer) RenderReceipt(*entity.Receipt, *entity.Client) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

// ── armado de casos de uso y semillas ────────────────────────────────────────

func newProductUC(s *store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(productRepo{s}, priceRepo{s}, clientRepo{s}, txRunner{s}, nil)
}

func newClientUC(s *store) *usecase.ClientUseCase {
	return usecase.NewClientUseCase(clientRepo{s}, productRepo{s}, saleRepo{s}, receiptRepo{s}, nil)
}

func newSaleUC(s *store) *usecase.SaleUseCase {
	return usecase.NewSaleUseCase(saleRepo{s}, productRepo{s}, clientRepo{s}, nil)
}

func newArrivalUC(s *store) *usecase.ArrivalUseCase {
	return usecase.NewArrivalUseCase(arrivalRepo{s}, saleRepo{s}, productRepo{s}, clientRepo{s}, supplierRepo{s}, txRunner{s}, nil)
}

func newReceiptUC(s *store, storage *memStorage) *usecase.ReceiptUseCase {
	return usecase.NewReceiptUseCase(receiptRepo{s}, clientRepo{s}, productRepo{s}, storage, stubRenderer{}, nil)
}

func seedClient(s *store, id, name string, t entity.ClientType) {
	s.clients[id] = &entity.Client{ID: id, Name: name, ClientType: t}
}

func seedSupplier(s *store, id, name string) {
	s.suppliers[id] = &entity.Supplier{ID: id, Name: name}
}

func seedProduct(s *store, id, name string) {
	s.products[id] = &entity.Product{ID: id, Name: name}
}

// seedDefaultPrice fila de grilla por defecto vigente desde hace un año.
func seedDefaultPrice(s *store, id, productID string, t entity.ComponentType, amount string) {
	s.prices[id] = &entity.PriceComponent{
		ID:            id,
		ProductID:     productID,
		ComponentType: t,
		Amount:        mustDec(amount),
		EffectiveFrom: time.Now().AddDate(-1, 0, 0),
	}
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
