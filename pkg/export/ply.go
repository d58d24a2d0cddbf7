// Package export writes extracted meshes to disk.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-nerf-renderer/pkg/field"
)

// WriteMeshPLY writes a mesh as ASCII PLY 1.0. Normals are written when
// present; colors are written as uchar red/green/blue when the mesh carries
// per-vertex color.
func WriteMeshPLY(w io.Writer, mesh *field.Mesh) error {
	bw := bufio.NewWriter(w)

	hasNormals := len(mesh.Normals) == len(mesh.Vertices) && len(mesh.Normals) > 0
	hasColors := mesh.HasColors()

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintf(bw, "element vertex %d\n", mesh.VertexCount())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	if hasNormals {
		fmt.Fprintln(bw, "property float nx")
		fmt.Fprintln(bw, "property float ny")
		fmt.Fprintln(bw, "property float nz")
	}
	if hasColors {
		fmt.Fprintln(bw, "property uchar red")
		fmt.Fprintln(bw, "property uchar green")
		fmt.Fprintln(bw, "property uchar blue")
	}
	fmt.Fprintf(bw, "element face %d\n", mesh.FaceCount())
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	for i, v := range mesh.Vertices {
		fmt.Fprintf(bw, "%g %g %g", v.X, v.Y, v.Z)
		if hasNormals {
			n := mesh.Normals[i]
			fmt.Fprintf(bw, " %g %g %g", n.X, n.Y, n.Z)
		}
		if hasColors {
			c := mesh.Colors[i].Clamp(0, 1)
			fmt.Fprintf(bw, " %d %d %d", int(255*c.X), int(255*c.Y), int(255*c.Z))
		}
		fmt.Fprintln(bw)
	}
	for _, f := range mesh.Faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}

	return bw.Flush()
}

// SaveMeshPLY writes the mesh to a file path
func SaveMeshPLY(path string, mesh *field.Mesh) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteMeshPLY(file, mesh); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
