package attribute

import "github.com/hupe1980/geoattr/archive"

// Properties govern what the manager and callers may do with an attribute.
type Properties struct {
	// Assignable permits SetValue/ModifyValue and value copies between elements.
	Assignable bool
	// Interpolable permits InterpolateAttributeValue to compute new values.
	Interpolable bool
	// Transferable permits Import to carry the attribute into another manager.
	Transferable bool
}

// DefaultProperties returns properties with every permission granted.
func DefaultProperties() Properties {
	return Properties{
		Assignable:   true,
		Interpolable: true,
		Transferable: true,
	}
}

func resolveProperties(props []Properties) Properties {
	if len(props) > 0 {
		return props[0]
	}
	return DefaultProperties()
}

// propertiesLayout: v0 stored (assignable, interpolable); v1 adds transferable.
var propertiesLayout = archive.Growable[Properties]{
	Versions: []func(*archive.Decoder, *Properties){
		func(d *archive.Decoder, p *Properties) {
			p.Assignable = d.Bool()
			p.Interpolable = d.Bool()
			p.Transferable = true
		},
		func(d *archive.Decoder, p *Properties) {
			p.Assignable = d.Bool()
			p.Interpolable = d.Bool()
			p.Transferable = d.Bool()
		},
	},
	Write: func(e *archive.Encoder, p *Properties) {
		e.Bool(p.Assignable)
		e.Bool(p.Interpolable)
		e.Bool(p.Transferable)
	},
}
