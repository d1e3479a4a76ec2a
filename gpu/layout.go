package gpu

import (
	"fmt"

	"render-lessons/core"
)

// AttribSlot describes how bytes of a buffer feed one shader input. A zero
// Buffer means the geometry buffer passed to Bind.
type AttribSlot struct {
	Name       string
	Buffer     Buffer
	Location   int32
	Components int32
	Type       ComponentType
	Normalized bool
	Stride     int32
	Offset     int
}

// Float32Slot is the common float attribute: components floats at a float
// offset inside vertices of stride floats.
func Float32Slot(name string, loc int32, components, strideFloats, offsetFloats int) AttribSlot {
	return AttribSlot{
		Name:       name,
		Location:   loc,
		Components: int32(components),
		Type:       Float32,
		Stride:     int32(strideFloats * 4),
		Offset:     offsetFloats * 4,
	}
}

// Binding is a reusable vertex layout plus what is needed to draw it.
type Binding struct {
	Layout  Layout
	Count   int32
	Indexed bool
}

// Call returns the draw call for the binding.
func (b *Binding) Call() DrawCall {
	return DrawCall{Layout: b.Layout, Primitive: Triangles, Count: b.Count, Indexed: b.Indexed}
}

// Bind packages attribute slots over geometry (and an optional index
// buffer) into a vertex layout. count is the number of indices when index is
// set, otherwise the number of vertices. Zero buffer handles come from failed
// allocations and are rejected.
func (b *Builder) Bind(geometry, index Buffer, slots []AttribSlot, count int) (*Binding, error) {
	const op = "bind vertex layout"

	if count <= 0 {
		return nil, b.fail(core.Errorf(core.ResourceAllocationError, op, "nothing to draw (count=%d)", count))
	}
	if len(slots) == 0 {
		return nil, b.fail(core.Errorf(core.ResourceAllocationError, op, "no attribute slots"))
	}

	desc := LayoutDesc{Index: index, Attribs: make([]AttribBinding, 0, len(slots))}
	for _, slot := range slots {
		buf := slot.Buffer
		if buf == 0 {
			buf = geometry
		}
		if err := checkSlot(slot, buf); err != nil {
			return nil, b.fail(core.Errorf(core.ResourceAllocationError, op, "%v", err))
		}
		desc.Attribs = append(desc.Attribs, AttribBinding{
			Buffer:     buf,
			Location:   uint32(slot.Location),
			Components: slot.Components,
			Type:       slot.Type,
			Normalized: slot.Normalized,
			Stride:     slot.Stride,
			Offset:     slot.Offset,
		})
	}

	layout := b.dev.Bind(desc)
	if layout == 0 {
		return nil, b.fail(core.Errorf(core.ResourceAllocationError, op, "failed to allocate vertex array"))
	}
	b.releases = append(b.releases, func() { b.dev.ReleaseLayout(layout) })

	return &Binding{Layout: layout, Count: int32(count), Indexed: index != 0}, nil
}

func checkSlot(slot AttribSlot, buf Buffer) error {
	switch {
	case buf == 0:
		return fmt.Errorf("attribute %q has no buffer", slot.Name)
	case slot.Location < 0:
		return fmt.Errorf("attribute %q has invalid location %d", slot.Name, slot.Location)
	case slot.Components < 1 || slot.Components > 4:
		return fmt.Errorf("attribute %q has %d components", slot.Name, slot.Components)
	case slot.Stride < 0 || slot.Offset < 0:
		return fmt.Errorf("attribute %q has negative stride or offset", slot.Name)
	}
	return nil
}
