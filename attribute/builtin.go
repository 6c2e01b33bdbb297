package attribute

import (
	"errors"

	"github.com/hupe1980/geoattr/archive"
)

// RegisterBuiltinTypes registers the primitive value types and their fixed-size
// arrays in ctx. The registered names match Base.Type.
func RegisterBuiltinTypes(ctx *archive.Context) error {
	return errors.Join(
		RegisterType(ctx, "bool", archive.BoolCodec),
		RegisterType(ctx, "int8", archive.Int8Codec),
		RegisterType(ctx, "uint8", archive.Uint8Codec),
		RegisterType(ctx, "int16", archive.Int16Codec),
		RegisterType(ctx, "uint16", archive.Uint16Codec),
		RegisterType(ctx, "int32", archive.Int32Codec),
		RegisterType(ctx, "uint32", archive.Uint32Codec),
		RegisterType(ctx, "int64", archive.Int64Codec),
		RegisterType(ctx, "uint64", archive.Uint64Codec),
		RegisterType(ctx, "int", archive.IntCodec),
		RegisterType(ctx, "float32", archive.Float32Codec),
		RegisterType(ctx, "float64", archive.Float64Codec),
		RegisterType(ctx, "string", archive.StringCodec),

		RegisterType(ctx, "[2]float32", archive.Array2(archive.Float32Codec)),
		RegisterType(ctx, "[3]float32", archive.Array3(archive.Float32Codec)),
		RegisterType(ctx, "[4]float32", archive.Array4(archive.Float32Codec)),
		RegisterType(ctx, "[2]float64", archive.Array2(archive.Float64Codec)),
		RegisterType(ctx, "[3]float64", archive.Array3(archive.Float64Codec)),
		RegisterType(ctx, "[4]float64", archive.Array4(archive.Float64Codec)),
		RegisterType(ctx, "[2]int32", archive.Array2(archive.Int32Codec)),
		RegisterType(ctx, "[3]int32", archive.Array3(archive.Int32Codec)),
		RegisterType(ctx, "[4]int32", archive.Array4(archive.Int32Codec)),
		RegisterType(ctx, "[2]uint32", archive.Array2(archive.Uint32Codec)),
		RegisterType(ctx, "[3]uint32", archive.Array3(archive.Uint32Codec)),
		RegisterType(ctx, "[4]uint32", archive.Array4(archive.Uint32Codec)),
		RegisterType(ctx, "[2]int", archive.Array2(archive.IntCodec)),
		RegisterType(ctx, "[3]int", archive.Array3(archive.IntCodec)),
		RegisterType(ctx, "[4]int", archive.Array4(archive.IntCodec)),
	)
}
