package geoattr

import (
	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/geom"
)

// RegisterTypes registers the built-in scalar, array and string types together
// with the geom value types in ctx. Call it once per context.
func RegisterTypes(ctx *archive.Context) error {
	if err := attribute.RegisterBuiltinTypes(ctx); err != nil {
		return err
	}
	return geom.RegisterTypes(ctx)
}

// NewManager creates an attribute manager configured by the repository options
// that apply to managers: logger, parallelism and manager metrics.
func NewManager(optFns ...Option) *attribute.Manager {
	return attribute.NewManager(applyOptions(optFns).managerOptions()...)
}
