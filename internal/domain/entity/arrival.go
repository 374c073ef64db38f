package entity

import "time"

// Arrival arribo de mercancía de un proveedor. Agrupa ventas (muchos-a-muchos:
// una venta puede, en principio, pertenecer a más de un arribo, aunque el uso
// típico es un arribo por lote de ventas).
type Arrival struct {
	ID            string
	ArrivalDate   time.Time
	InvoiceNumber string
	SupplierID    string
	SaleIDs       []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// Supplier proveedor de los arribos.
type Supplier struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}
