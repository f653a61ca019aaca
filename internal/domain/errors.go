package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrDuplicate      = errors.New("registro duplicado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidJobType = errors.New("jobType inválido: use api_import, email_import o manual_import")
	ErrMissingStoreID = errors.New("storeId es requerido")
	ErrInvalidAmount  = errors.New("monto inválido")
	ErrInvalidDate    = errors.New("fecha inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
)
