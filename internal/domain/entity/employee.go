package entity

import "time"

// Employee empleado de una tienda. (StoreID, EmployeeCode) es la clave natural e inmutable.
type Employee struct {
	ID            string
	StoreID       string
	EmployeeCode  string
	Name          string
	Role          string
	HireDate      *time.Time
	IsActive      bool
	POSEmployeeID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
