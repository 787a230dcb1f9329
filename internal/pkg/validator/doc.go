// Package validator validates request structs with go-playground/validator.
//
// Failures are returned as a map keyed by the field's JSON name, so the HTTP
// layer can echo them back without further translation.
package validator
