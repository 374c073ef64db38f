package entity

import "time"

// Roles de la aplicación.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User usuario de la aplicación (autenticación JWT).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
