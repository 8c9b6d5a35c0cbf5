// Package validation provides input validation for finkit configuration and
// request payloads.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used for configuration trees and request bodies.
//
// # Struct Tag Validation
//
//	type ProviderConfig struct {
//	    Name     string `validate:"required,min=2"`
//	    Priority int    `validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("symbol", symbol)
//	err := v.Validate()
package validation
