package geom

import (
	"time"

	"github.com/frayproject/fray/log"
	"github.com/frayproject/fray/types"
)

// A mesh triangle: indices into the vertex/uv/normal pools plus the
// precomputed geometric normal and surface partial derivatives.
type Triangle struct {
	V, N, T [3]int
	GNormal types.Vec3
	DNdx    types.Vec3
	DNdy    types.Vec3
}

// A triangle mesh with an optional KD-tree acceleration structure.
type Mesh struct {
	Vertices  []types.Vec3
	Normals   []types.Vec3
	UVs       []types.Vec3
	Triangles []Triangle

	// Use the geometric normal even when vertex normals are present.
	Faceted bool
	// Build and traverse a KD-tree instead of scanning all triangles.
	UseKD bool
	// Skip triangles facing away from the ray.
	BackfaceCulling bool

	bbox   BBox
	kdRoot *KDTreeNode

	logger log.Logger
}

// Create an empty mesh with acceleration enabled.
func NewMesh() *Mesh {
	return &Mesh{
		UseKD:  true,
		logger: log.New("mesh"),
	}
}

// Precompute everything needed for intersections: the enclosing bounding box,
// per-triangle geometric normals and uv partial derivatives, and the KD-tree.
func (m *Mesh) BeginRender() {
	m.prepareTriangles()

	m.bbox.MakeEmpty()
	for _, v := range m.Vertices {
		m.bbox.Add(v)
	}

	if m.UseKD && len(m.Triangles) > maxTrianglesPerLeaf {
		start := time.Now()
		allTriangles := make([]int, len(m.Triangles))
		for i := range allTriangles {
			allTriangles[i] = i
		}
		m.kdRoot = m.buildKD(allTriangles, m.bbox, 0)
		m.logger.Debugf("KD-tree built over %d triangles in %d ms",
			len(m.Triangles), time.Since(start).Nanoseconds()/1e6)
	}
}

// solve x*a + y*b = c in 2D (the z components are ignored).
func solve2D(a, b, c types.Vec3) (x, y float64) {
	dcr := a[0]*b[1] - b[0]*a[1]
	x = (c[0]*b[1] - c[1]*b[0]) / dcr
	y = (a[0]*c[1] - a[1]*c[0]) / dcr
	return x, y
}

func (m *Mesh) prepareTriangles() {
	hasUVData := len(m.UVs) > 0 && len(m.Normals) > 0
	for i := range m.Triangles {
		t := &m.Triangles[i]
		a := m.Vertices[t.V[0]]
		b := m.Vertices[t.V[1]]
		c := m.Vertices[t.V[2]]
		ab := b.Sub(a)
		ac := c.Sub(a)
		t.GNormal = ab.Cross(ac).Normalize()

		if hasUVData {
			ta := m.UVs[t.T[0]]
			tb := m.UVs[t.T[1]]
			tc := m.UVs[t.T[2]]

			tab := tb.Sub(ta)
			tac := tc.Sub(ta)

			// find the object-space directions that move u and v by one unit
			px, qx := solve2D(tab, tac, types.XYZ(1, 0, 0))
			py, qy := solve2D(tab, tac, types.XYZ(0, 1, 0))

			t.DNdx = ab.Mul(px).Add(ac.Mul(qx)).Normalize()
			t.DNdy = ab.Mul(py).Add(ac.Mul(qy)).Normalize()
		} else {
			t.DNdx = types.Vec3{}
			t.DNdy = types.Vec3{}
		}
	}
}

// Intersect one triangle and fill in the shading info on a closer hit.
func (m *Mesh) intersectTriangle(ray Ray, t *Triangle, info *IntersectionInfo) bool {
	if m.BackfaceCulling && ray.Dir.Dot(t.GNormal) > 0 {
		return false
	}
	a := m.Vertices[t.V[0]]
	b := m.Vertices[t.V[1]]
	c := m.Vertices[t.V[2]]

	lambda2, lambda3, ok := IntersectTriangle(ray, a, b, c, &info.Dist)
	if !ok {
		return false
	}

	info.Geom = m
	info.IP = ray.Start.Add(ray.Dir.Mul(info.Dist))
	if m.Faceted || len(m.Normals) == 0 {
		info.Norm = t.GNormal
	} else {
		na := m.Normals[t.N[0]]
		nb := m.Normals[t.N[1]]
		nc := m.Normals[t.N[2]]
		info.Norm = na.Add(nb.Sub(na).Mul(lambda2)).Add(nc.Sub(na).Mul(lambda3)).Normalize()
	}

	if len(m.UVs) == 0 {
		info.U, info.V = 0, 0
	} else {
		ta := m.UVs[t.T[0]]
		tb := m.UVs[t.T[1]]
		tc := m.UVs[t.T[2]]
		texCoord := ta.Add(tb.Sub(ta).Mul(lambda2)).Add(tc.Sub(ta).Mul(lambda3))
		info.U = texCoord[0]
		info.V = texCoord[1]
	}
	info.DNdx = t.DNdx
	info.DNdy = t.DNdy
	return true
}

func (m *Mesh) Intersect(ray Ray, info *IntersectionInfo) bool {
	rray := NewRRay(ray)
	if !m.bbox.TestIntersect(&rray) {
		return false
	}

	info.Dist = types.Inf

	if m.kdRoot != nil {
		return m.traverseKD(m.kdRoot, &rray, m.bbox, info)
	}

	found := false
	for i := range m.Triangles {
		if m.intersectTriangle(ray, &m.Triangles[i], info) {
			found = true
		}
	}
	return found
}
