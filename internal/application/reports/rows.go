// Package reports agrega las ventas, arribos y recibos en las filas que
// consumen los reportes Excel y el dashboard. Solo lectura: ninguna función
// de este paquete muta entidades.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
)

// MonthlyProductRow fila del bilan produit: cantidades e ingresos por
// producto en el período.
type MonthlyProductRow struct {
	ProductName  string
	Quantity     int
	AvgUnitPrice decimal.Decimal
	Revenue      decimal.Decimal
}

// MonthlyTotals totales del bilan produit.
type MonthlyTotals struct {
	Quantity int
	Revenue  decimal.Decimal
}

// MonthlyProductRows agrupa las ventas por producto: cantidad total,
// ingreso total y precio unitario promedio (cantidad cero → promedio cero).
// Filas ordenadas por nombre de producto.
func MonthlyProductRows(sales []*entity.Sale, products map[string]*entity.Product) ([]MonthlyProductRow, MonthlyTotals) {
	type acc struct {
		qty     int
		revenue decimal.Decimal
	}
	byProduct := make(map[string]*acc)
	for _, s := range sales {
		a, ok := byProduct[s.ProductID]
		if !ok {
			a = &acc{}
			byProduct[s.ProductID] = a
		}
		a.qty += s.Quantity
		a.revenue = a.revenue.Add(s.TotalAmount)
	}

	rows := make([]MonthlyProductRow, 0, len(byProduct))
	var totals MonthlyTotals
	for productID, a := range byProduct {
		avg := decimal.Zero
		if a.qty > 0 {
			avg = a.revenue.Div(decimal.NewFromInt(int64(a.qty)))
		}
		rows = append(rows, MonthlyProductRow{
			ProductName:  productName(products, productID),
			Quantity:     a.qty,
			AvgUnitPrice: avg,
			Revenue:      a.revenue,
		})
		totals.Quantity += a.qty
		totals.Revenue = totals.Revenue.Add(a.revenue)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductName < rows[j].ProductName })
	return rows, totals
}

// PricingRow fila del rapport de prix: por producto, cantidad, PUA promedio
// (precio de compra unitario), PTA (monto total), transporte acumulado y
// PT environné (PTA + transporte). Los montos salen del snapshot congelado
// de cada venta, no de la grilla vigente.
type PricingRow struct {
	ProductName string
	Quantity    int
	AvgPUA      decimal.Decimal
	PTA         decimal.Decimal
	Transport   decimal.Decimal
	PTEnvironne decimal.Decimal
}

// PricingTotals totales del rapport de prix.
type PricingTotals struct {
	Quantity    int
	PTA         decimal.Decimal
	Transport   decimal.Decimal
	PTEnvironne decimal.Decimal
}

// PricingRows agrupa las ventas por producto con el desglose de precios.
// AvgPUA = Σ(purchase × qty) / Σqty, cantidad cero → cero.
func PricingRows(sales []*entity.Sale, products map[string]*entity.Product) ([]PricingRow, PricingTotals) {
	type acc struct {
		qty       int
		purchase  decimal.Decimal
		pta       decimal.Decimal
		transport decimal.Decimal
	}
	byProduct := make(map[string]*acc)
	for _, s := range sales {
		a, ok := byProduct[s.ProductID]
		if !ok {
			a = &acc{}
			byProduct[s.ProductID] = a
		}
		qty := decimal.NewFromInt(int64(s.Quantity))
		a.qty += s.Quantity
		a.purchase = a.purchase.Add(s.ComponentAmount(entity.ComponentPurchasePrice).Mul(qty))
		a.pta = a.pta.Add(s.TotalAmount)
		a.transport = a.transport.Add(s.ComponentAmount(entity.ComponentTransport).Mul(qty))
	}

	rows := make([]PricingRow, 0, len(byProduct))
	var totals PricingTotals
	for productID, a := range byProduct {
		avgPUA := decimal.Zero
		if a.qty > 0 {
			avgPUA = a.purchase.Div(decimal.NewFromInt(int64(a.qty)))
		}
		rows = append(rows, PricingRow{
			ProductName: productName(products, productID),
			Quantity:    a.qty,
			AvgPUA:      avgPUA,
			PTA:         a.pta,
			Transport:   a.transport,
			PTEnvironne: a.pta.Add(a.transport),
		})
		totals.Quantity += a.qty
		totals.PTA = totals.PTA.Add(a.pta)
		totals.Transport = totals.Transport.Add(a.transport)
	}
	totals.PTEnvironne = totals.PTA.Add(totals.Transport)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductName < rows[j].ProductName })
	return rows, totals
}

// ForecastRow fila del prévisionnel: venta esperada de un producto a un
// cliente, valuada al precio unitario del snapshot.
type ForecastRow struct {
	ProductName      string
	ExpectedQuantity int
	UnitPrice        decimal.Decimal
	ForecastAmount   decimal.Decimal
}

// ForecastSection bloque por cliente del prévisionnel, con subtotal.
type ForecastSection struct {
	ClientName string
	Rows       []ForecastRow
	Total      decimal.Decimal
}

// ForecastSections agrupa las ventas por cliente: cantidad prevista ×
// precio unitario de venta, con subtotal por cliente. Secciones y filas
// ordenadas por nombre.
func ForecastSections(sales []*entity.Sale, products map[string]*entity.Product, clients map[string]*entity.Client) []ForecastSection {
	byClient := make(map[string][]*entity.Sale)
	for _, s := range sales {
		byClient[s.ClientID] = append(byClient[s.ClientID], s)
	}

	sections := make([]ForecastSection, 0, len(byClient))
	for clientID, clientSales := range byClient {
		section := ForecastSection{ClientName: clientName(clients, clientID)}
		for _, s := range clientSales {
			unitPrice := s.ComponentAmount(entity.ComponentPurchasePrice)
			amount := unitPrice.Mul(decimal.NewFromInt(int64(s.ExpectedQuantity)))
			section.Rows = append(section.Rows, ForecastRow{
				ProductName:      productName(products, s.ProductID),
				ExpectedQuantity: s.ExpectedQuantity,
				UnitPrice:        unitPrice,
				ForecastAmount:   amount,
			})
			section.Total = section.Total.Add(amount)
		}
		sort.Slice(section.Rows, func(i, j int) bool {
			return section.Rows[i].ProductName < section.Rows[j].ProductName
		})
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ClientName < sections[j].ClientName })
	return sections
}

// RecapRow fila del récapitulatif de facturation: lo pedido contra lo
// entregado, el precio facturado contra el de la grilla y su écart.
type RecapRow struct {
	ClientName    string
	ProductName   string
	OrderedQty    int
	DeliveredQty  int
	UnitPrice     decimal.Decimal
	GridUnitPrice decimal.Decimal
	Conform       bool
	TotalAmount   decimal.Decimal
	InvoiceNumber string
	Ecart         decimal.Decimal
	Justification string
}

// RecapRows recorre los arribos del período y proyecta cada venta asociada
// contra la grilla vigente del producto. clientID no nulo restringe al
// cliente dado. Una venta cuyo producto ya no existe se marca no conforme.
func RecapRows(
	arrivals []*entity.Arrival,
	salesByID map[string]*entity.Sale,
	products map[string]*entity.Product,
	clients map[string]*entity.Client,
	clientID *string,
) []RecapRow {
	var rows []RecapRow
	for _, arrival := range arrivals {
		for _, saleID := range arrival.SaleIDs {
			sale, ok := salesByID[saleID]
			if !ok {
				continue
			}
			if clientID != nil && sale.ClientID != *clientID {
				continue
			}
			unitPrice := sale.ComponentAmount(entity.ComponentPurchasePrice)
			product, productExists := products[sale.ProductID]

			row := RecapRow{
				ClientName:    clientName(clients, sale.ClientID),
				OrderedQty:    sale.ExpectedQuantity,
				DeliveredQty:  sale.Quantity,
				UnitPrice:     unitPrice,
				TotalAmount:   sale.TotalAmount,
				InvoiceNumber: "Facture N°" + arrival.InvoiceNumber,
			}
			if productExists {
				// Precio de la grilla vigente a la fecha de la venta, con el
				// fallback negociación→defecto del cliente.
				gridPrice := pricing.ResolveForClient(
					product.PriceComponents, entity.ComponentPurchasePrice,
					clients[sale.ClientID], sale.SaleDate,
				)
				row.ProductName = product.Name
				row.GridUnitPrice = gridPrice
				row.Conform = unitPrice.Equal(gridPrice)
				row.Ecart = unitPrice.Sub(gridPrice).Mul(decimal.NewFromInt(int64(sale.Quantity)))
				if !row.Conform {
					row.Justification = "Prix facturé différent de la grille"
				}
			} else {
				row.ProductName = "Produit inconnu"
				row.GridUnitPrice = unitPrice
				row.Conform = false
				row.Ecart = decimal.Zero
				row.Justification = "Produit non trouvé dans le système"
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func productName(products map[string]*entity.Product, id string) string {
	if p, ok := products[id]; ok {
		return p.Name
	}
	return "Produit inconnu"
}

func clientName(clients map[string]*entity.Client, id string) string {
	if c, ok := clients[id]; ok {
		return c.Name
	}
	return "Client inconnu"
}
