// Package lessons holds the individual demos, from a single triangle to a
// lit 3D scene. Each one is a renderer.Lesson.
package lessons

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"render-lessons/gpu"
	"render-lessons/renderer"
)

type entry struct {
	name string
	new  func() renderer.Lesson
}

// Ordered as the course runs.
var registry = []entry{
	{"hello-triangle", func() renderer.Lesson { return &HelloTriangle{} }},
	{"motion-and-color", func() renderer.Lesson { return &MotionAndColor{} }},
	{"intro-to-3d", func() renderer.Lesson { return &Intro3D{} }},
	{"blinn-phong", func() renderer.Lesson { return &BlinnPhong{} }},
}

// Names lists every lesson in course order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// New returns a fresh lesson by name.
func New(name string) (renderer.Lesson, error) {
	for _, e := range registry {
		if e.name == name {
			return e.new(), nil
		}
	}
	return nil, fmt.Errorf("unknown lesson %q (available: %s)", name, strings.Join(Names(), ", "))
}

// buildProgram compiles, links and resolves a program in one step.
func buildProgram(ctx *renderer.Context, vs, fs string, attribs, uniforms []string) (*gpu.ShaderProgram, error) {
	prog, err := ctx.Builder.CreateProgram(vs, fs)
	if err != nil {
		return nil, err
	}
	if err := prog.Resolve(attribs, uniforms); err != nil {
		return nil, err
	}
	return prog, nil
}

// placement positions one of the small cubes shared by the 3D lessons.
type placement struct {
	position mgl32.Vec3
	scale    float32
	angleDeg float32
}

var cubePlacements = []placement{
	{mgl32.Vec3{0, 0.4, 0}, 0.4, 0},
	{mgl32.Vec3{1, 0.05, 1}, 0.05, 20},
	{mgl32.Vec3{1, 0.1, -1}, 0.1, 40},
	{mgl32.Vec3{-1, 0.15, 1}, 0.15, 60},
	{mgl32.Vec3{-1, 0.2, -1}, 0.2, 80},
}
