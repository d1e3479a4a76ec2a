package scene

import (
	"errors"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/config"
	"render-lessons/gpu"
)

// Spawner emits MovingShapes from an anchor point that jumps to a new
// random spot every SpawnerChangeTime seconds.
type Spawner struct {
	// Bounds is the surface size in pixels. Anchors are drawn from its
	// central region, so set it before the first Update.
	Bounds mgl32.Vec2

	cfg        config.Motion
	geometries []*gpu.Binding
	rng        *rand.Rand

	anchor          mgl32.Vec2
	anchorPlaced    bool
	timeToRelocate  float32
	timeToNextSpawn float32
	spawned         int

	shapes *Population[*MovingShape]
}

// NewSpawner creates a spawner drawing from geometries. A nil rng gets a
// fixed seed so runs are reproducible.
func NewSpawner(cfg config.Motion, geometries []*gpu.Binding, rng *rand.Rand) (*Spawner, error) {
	if len(geometries) == 0 {
		return nil, errors.New("spawner needs at least one geometry")
	}
	if cfg.SpawnInterval <= 0 {
		return nil, errors.New("spawn interval must be positive")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	return &Spawner{
		cfg:             cfg,
		geometries:      geometries,
		rng:             rng,
		timeToRelocate:  cfg.SpawnerChangeTime,
		timeToNextSpawn: cfg.SpawnInterval,
		shapes:          NewPopulation[*MovingShape](cfg.MaxShapes),
	}, nil
}

// Update runs one simulation step: anchor timer, spawning, then advancing,
// culling and truncating the population.
func (s *Spawner) Update(dt float32) {
	if !s.anchorPlaced {
		s.relocate()
	}

	s.timeToRelocate -= dt
	if s.timeToRelocate < 0 {
		s.timeToRelocate = s.cfg.SpawnerChangeTime
		s.relocate()
	}

	// Adding the interval back keeps the remainder, so the long-run rate
	// stays at one shape per interval.
	s.timeToNextSpawn -= dt
	for s.timeToNextSpawn < 0 {
		s.timeToNextSpawn += s.cfg.SpawnInterval
		s.shapes.Add(s.spawn())
	}

	s.shapes.Advance(dt)
}

// Shapes returns the live shapes, oldest first.
func (s *Spawner) Shapes() []*MovingShape { return s.shapes.Items() }

// Spawned returns the total number of shapes created so far.
func (s *Spawner) Spawned() int { return s.spawned }

func (s *Spawner) Anchor() mgl32.Vec2 { return s.anchor }

func (s *Spawner) relocate() {
	m := s.cfg.AnchorMargin
	s.anchor = mgl32.Vec2{
		s.between(s.Bounds.X()*m, s.Bounds.X()*(1-m)),
		s.between(s.Bounds.Y()*m, s.Bounds.Y()*(1-m)),
	}
	s.anchorPlaced = true
}

func (s *Spawner) spawn() *MovingShape {
	moveAngle := s.between(0, 2*math.Pi)
	speed := s.between(s.cfg.Speed.Min, s.cfg.Speed.Max)
	forceAngle := s.between(0, 2*math.Pi)
	force := s.between(s.cfg.Force.Min, s.cfg.Force.Max)
	size := s.between(s.cfg.Size.Min, s.cfg.Size.Max)
	lifetime := s.between(s.cfg.Lifetime.Min, s.cfg.Lifetime.Max)
	geometry := s.geometries[s.rng.Intn(len(s.geometries))]

	s.spawned++
	return NewMovingShape(s.anchor, polar(moveAngle, speed), polar(forceAngle, force), size, lifetime, geometry)
}

func (s *Spawner) between(lo, hi float32) float32 {
	return lo + s.rng.Float32()*(hi-lo)
}

// polar returns a vector of length r at angle a, measured from +Y.
func polar(a, r float32) mgl32.Vec2 {
	sin, cos := math.Sincos(float64(a))
	return mgl32.Vec2{float32(sin) * r, float32(cos) * r}
}
