// Package model contains the storefront records exchanged with the backend.
//
// Field names and JSON tags mirror the backend's camelCase DTOs. Money
// amounts stay float64 on the wire; arithmetic over them goes through
// shopspring/decimal in the packages that compute totals.
package model
