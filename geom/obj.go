package geom

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/frayproject/fray/types"
)

func toInt(s string) int {
	if s == "" {
		return 0
	}
	x, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return x
}

func toFloat(s string) float64 {
	if s == "" {
		return 0
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return x
}

// parse a "v[/vt[/vn]]" face corner
func parseTrio(s string) (vertex, uv, normal int) {
	items := strings.Split(s, "/")
	// "4" -> {"4"} , "4//5" -> {"4", "", "5"}
	vertex = toInt(items[0])
	if len(items) >= 2 {
		uv = toInt(items[1])
	}
	if len(items) >= 3 {
		normal = toInt(items[2])
	}
	return vertex, uv, normal
}

func parseTriangle(s0, s1, s2 string) Triangle {
	var t Triangle
	t.V[0], t.T[0], t.N[0] = parseTrio(s0)
	t.V[1], t.T[1], t.N[1] = parseTrio(s1)
	t.V[2], t.T[2], t.N[2] = parseTrio(s2)
	return t
}

// Load the mesh from a wavefront OBJ file. Only the v/vn/vt/f statements are
// honored; polygons are triangulated by fan. Indices in the file are 1-based,
// so dummy zeroth pool entries are inserted up front.
func (m *Mesh) LoadFromOBJ(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("mesh: %s", err)
	}
	defer f.Close()

	m.Vertices = append(m.Vertices, types.Vec3{})
	m.UVs = append(m.UVs, types.Vec3{})
	m.Normals = append(m.Normals, types.Vec3{})

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "v":
			if len(tokens) < 4 {
				continue
			}
			m.Vertices = append(m.Vertices, types.XYZ(toFloat(tokens[1]), toFloat(tokens[2]), toFloat(tokens[3])))
		case "vn":
			if len(tokens) < 4 {
				continue
			}
			m.Normals = append(m.Normals, types.XYZ(toFloat(tokens[1]), toFloat(tokens[2]), toFloat(tokens[3])))
		case "vt":
			if len(tokens) < 3 {
				continue
			}
			m.UVs = append(m.UVs, types.XYZ(toFloat(tokens[1]), toFloat(tokens[2]), 0))
		case "f":
			for i := 0; i < len(tokens)-3; i++ {
				m.Triangles = append(m.Triangles, parseTriangle(tokens[1], tokens[2+i], tokens[3+i]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mesh: %s", err)
	}

	// drop the synthetic zeroth uv/normal pools again if the file never
	// referenced them, so the "has uvs/normals" checks stay meaningful
	if len(m.UVs) == 1 {
		m.UVs = nil
	}
	if len(m.Normals) == 1 {
		m.Normals = nil
	}

	m.logger.Infof("%s: %d vertices, %d triangles", filename, len(m.Vertices)-1, len(m.Triangles))
	return nil
}
