package field

import (
	"github.com/df07/go-nerf-renderer/pkg/core"
)

// Mesh is a triangle mesh extracted from a density field. Colors is empty
// unless per-vertex color was requested at export time.
type Mesh struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	Faces    [][3]int
	Colors   []core.Vec3
}

// VertexCount returns the number of vertices in the mesh
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles in the mesh
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// HasColors reports whether per-vertex colors are attached
func (m *Mesh) HasColors() bool {
	return len(m.Colors) == len(m.Vertices) && len(m.Vertices) > 0
}
