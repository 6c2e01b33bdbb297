package geom

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
)

// Value codecs of the geometry types.
var (
	Point2Codec = archive.Codec[Point2]{
		Encode: func(e *archive.Encoder, p Point2) {
			e.Float64(p.X)
			e.Float64(p.Y)
		},
		Decode: func(d *archive.Decoder) Point2 {
			return Point2{X: d.Float64(), Y: d.Float64()}
		},
		Size: 16,
	}
	Point3Codec = archive.Codec[Point3]{
		Encode: func(e *archive.Encoder, p Point3) {
			e.Float64(p.X)
			e.Float64(p.Y)
			e.Float64(p.Z)
		},
		Decode: func(d *archive.Decoder) Point3 {
			return Point3{X: d.Float64(), Y: d.Float64(), Z: d.Float64()}
		},
		Size: 24,
	}
	RGBColorCodec = archive.Codec[RGBColor]{
		Encode: func(e *archive.Encoder, c RGBColor) {
			e.Raw([]byte{c.R, c.G, c.B})
		},
		Decode: func(d *archive.Decoder) RGBColor {
			p := d.Raw(3)
			if p == nil {
				return RGBColor{}
			}
			return RGBColor{R: p[0], G: p[1], B: p[2]}
		},
		Size: 3,
	}
	GreyscaleColorCodec = archive.Codec[GreyscaleColor]{
		Encode: func(e *archive.Encoder, c GreyscaleColor) { e.Uint8(c.Value) },
		Decode: func(d *archive.Decoder) GreyscaleColor { return GreyscaleColor{Value: d.Uint8()} },
		Size:   1,
	}
	// UUIDCodec stores the 16 raw bytes of an identifier.
	UUIDCodec = archive.Codec[uuid.UUID]{
		Encode: func(e *archive.Encoder, id uuid.UUID) { e.Raw(id[:]) },
		Decode: func(d *archive.Decoder) uuid.UUID {
			p := d.Raw(16)
			if p == nil {
				return uuid.Nil
			}
			id, err := uuid.FromBytes(p)
			if err != nil {
				d.Fail(err)
			}
			return id
		},
		Size: 16,
	}
)

// RegisterTypes registers the geometry value types as attribute types in ctx.
// Registered names match attribute.Base.Type.
func RegisterTypes(ctx *archive.Context) error {
	return errors.Join(
		attribute.RegisterType(ctx, "geom.Point2", Point2Codec),
		attribute.RegisterType(ctx, "geom.Point3", Point3Codec),
		attribute.RegisterType(ctx, "geom.RGBColor", RGBColorCodec),
		attribute.RegisterType(ctx, "geom.GreyscaleColor", GreyscaleColorCodec),
		attribute.RegisterType(ctx, "uuid.UUID", UUIDCodec),
	)
}
