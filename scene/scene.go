package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/gpu"
)

// Entity is anything the frame loop advances and draws.
type Entity interface {
	IsAlive() bool
	Update(dt float32)
	// WorldTransform is recomputed on every call.
	WorldTransform() mgl32.Mat4
	// Geometry is not owned by the entity and outlives it.
	Geometry() *gpu.Binding
}

// Population is an ordered collection of entities, oldest first.
// Max of zero means unbounded.
type Population[E Entity] struct {
	Max int

	items []E
}

func NewPopulation[E Entity](max int) *Population[E] {
	return &Population[E]{Max: max}
}

func (p *Population[E]) Add(e E) {
	p.items = append(p.items, e)
}

// Advance updates every entity, drops the dead ones (compacting in place)
// and truncates to Max. Survivors keep their order, so truncation keeps
// the oldest and discards the newest excess.
func (p *Population[E]) Advance(dt float32) {
	write := 0
	for _, e := range p.items {
		e.Update(dt)
		if !e.IsAlive() {
			continue
		}
		p.items[write] = e
		write++
	}
	clear(p.items[write:])
	p.items = p.items[:write]

	if p.Max > 0 && len(p.items) > p.Max {
		clear(p.items[p.Max:])
		p.items = p.items[:p.Max]
	}
}

// Items returns the live entities in draw order. The slice is only valid
// until the next Add or Advance.
func (p *Population[E]) Items() []E { return p.items }

func (p *Population[E]) Len() int { return len(p.items) }

// DrawList returns the live entities that have geometry.
func DrawList[E Entity](entities []E) []E {
	out := make([]E, 0, len(entities))
	for _, e := range entities {
		if e.IsAlive() && e.Geometry() != nil {
			out = append(out, e)
		}
	}
	return out
}
