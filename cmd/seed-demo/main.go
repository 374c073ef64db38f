// seed-demo puebla una base vacía con el usuario admin y un juego mínimo de
// datos de demostración: un proveedor, dos clientes (uno negociado) y dos
// productos con su grilla de precios por defecto.
//
// Uso: go run ./cmd/seed-demo
// Idempotencia básica: si el admin ya existe, el seeder se detiene.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/infrastructure/postgres"
	"github.com/medarrival/medarrival-api/pkg/config"
)

const (
	adminEmail    = "admin@medarrival.local"
	adminPassword = "admin123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		die("cargar configuración: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		die("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	existing, err := userRepo.FindByEmail(adminEmail)
	if err != nil {
		die("buscar admin: %v", err)
	}
	if existing != nil {
		fmt.Println("admin ya existe, nada que sembrar")
		return
	}

	now := time.Now().UTC()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		die("hash de contraseña: %v", err)
	}
	admin := &entity.User{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "MedArrival",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		die("crear admin: %v", err)
	}
	fmt.Printf("admin creado: %s / %s\n", adminEmail, adminPassword)

	supplierRepo := postgres.NewSupplierRepository(pool)
	supplier := &entity.Supplier{
		ID:        uuid.NewString(),
		Name:      "Pharma Distribution SARL",
		Address:   "12 Rue de l'Industrie, Casablanca",
		Phone:     "+212 522 000 000",
		Email:     "contact@pharmadist.example",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := supplierRepo.Create(supplier); err != nil {
		die("crear proveedor: %v", err)
	}

	clientRepo := postgres.NewClientRepository(pool)
	clients := []*entity.Client{
		{
			ID:         uuid.NewString(),
			Name:       "Hôpital Provincial",
			Address:    "Avenue Hassan II",
			ClientType: entity.ClientStandard,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		{
			ID:         uuid.NewString(),
			Name:       "Clinique Atlas",
			Address:    "Boulevard Zerktouni",
			ClientType: entity.ClientNegotiated,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
	for _, cl := range clients {
		if err := clientRepo.Create(cl); err != nil {
			die("crear cliente %s: %v", cl.Name, err)
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	priceRepo := postgres.NewPriceComponentRepository(pool)
	products := []struct {
		name, desc string
		amounts    map[entity.ComponentType]string
	}{
		{
			name: "Seringue 10ml", desc: "Seringue stérile à usage unique",
			amounts: map[entity.ComponentType]string{
				entity.ComponentPurchasePrice: "12.50",
				entity.ComponentTransport:     "1.20",
				entity.ComponentStorage:       "0.40",
			},
		},
		{
			name: "Compresse stérile", desc: "Boîte de 100 compresses",
			amounts: map[entity.ComponentType]string{
				entity.ComponentPurchasePrice: "45.00",
				entity.ComponentTransport:     "3.00",
				entity.ComponentCustoms:       "2.25",
			},
		},
	}
	for _, p := range products {
		prod := &entity.Product{
			ID:          uuid.NewString(),
			Name:        p.name,
			Description: p.desc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := productRepo.Create(prod); err != nil {
			die("crear producto %s: %v", p.name, err)
		}
		for ct, raw := range p.amounts {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				die("monto %s: %v", raw, err)
			}
			pc := &entity.PriceComponent{
				ID:            uuid.NewString(),
				ProductID:     prod.ID,
				ComponentType: ct,
				Amount:        amount,
				EffectiveFrom: now,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := priceRepo.Create(pc); err != nil {
				die("crear precio %s/%s: %v", p.name, ct, err)
			}
		}
		fmt.Printf("producto creado: %s\n", p.name)
	}

	fmt.Println("seed completado")
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
