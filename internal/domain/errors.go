package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrConflict       = errors.New("conflicto de concurrencia: versión obsoleta")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrNotNegotiated  = errors.New("solo clientes negociados pueden tener precios personalizados")
	ErrWrongOwnership = errors.New("el recurso no pertenece a este cliente")
)
