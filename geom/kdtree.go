package geom

// KD-tree build limits. A node becomes a leaf when it holds few enough
// triangles or the tree gets too deep.
const (
	maxTrianglesPerLeaf = 20
	maxTreeDepth        = 64
)

// A KD-tree node. Leaf nodes hold triangle indices; inner nodes hold the
// split plane and the two children.
type KDTreeNode struct {
	Axis     Axis
	SplitPos float64

	Left, Right *KDTreeNode

	// Indices into the mesh triangle pool; non-nil exactly for leaves.
	Triangles []int
}

// True if the node is a leaf.
func (n *KDTreeNode) IsLeaf() bool {
	return n.Triangles != nil
}

// Build a KD-tree node over the given triangles. The split axis cycles with
// depth and the split position is the midpoint of the node box; a triangle
// overlapping both children goes into both.
func (m *Mesh) buildKD(triangles []int, bbox BBox, depth int) *KDTreeNode {
	if len(triangles) <= maxTrianglesPerLeaf || depth > maxTreeDepth {
		if triangles == nil {
			triangles = []int{}
		}
		return &KDTreeNode{Triangles: triangles}
	}

	axis := Axis(depth % 3)
	splitPos := (bbox.VMin[axis] + bbox.VMax[axis]) * 0.5

	leftBBox, rightBBox := bbox.Split(axis, splitPos)

	var leftTriangles, rightTriangles []int
	for _, idx := range triangles {
		t := &m.Triangles[idx]
		a := m.Vertices[t.V[0]]
		b := m.Vertices[t.V[1]]
		c := m.Vertices[t.V[2]]
		if leftBBox.IntersectTriangle(a, b, c) {
			leftTriangles = append(leftTriangles, idx)
		}
		if rightBBox.IntersectTriangle(a, b, c) {
			rightTriangles = append(rightTriangles, idx)
		}
	}

	return &KDTreeNode{
		Axis:     axis,
		SplitPos: splitPos,
		Left:     m.buildKD(leftTriangles, leftBBox, depth+1),
		Right:    m.buildKD(rightTriangles, rightBBox, depth+1),
	}
}

// Traverse the KD-tree in near-to-far order. A leaf hit only counts when the
// intersection point lies inside the leaf box; otherwise the triangle
// actually belongs to a node visited later and reporting it here would break
// nearest-first ordering.
func (m *Mesh) traverseKD(node *KDTreeNode, ray *RRay, bbox BBox, info *IntersectionInfo) bool {
	if node.IsLeaf() {
		found := false
		for _, idx := range node.Triangles {
			if m.intersectTriangle(ray.Ray, &m.Triangles[idx], info) {
				found = true
			}
		}
		return found && bbox.Inside(info.IP)
	}

	leftBBox, rightBBox := bbox.Split(node.Axis, node.SplitPos)
	childOrder := [2]*KDTreeNode{node.Left, node.Right}
	boxOrder := [2]BBox{leftBBox, rightBBox}
	if ray.Start[node.Axis] > node.SplitPos {
		childOrder[0], childOrder[1] = childOrder[1], childOrder[0]
		boxOrder[0], boxOrder[1] = boxOrder[1], boxOrder[0]
	}

	for i := 0; i < 2; i++ {
		if boxOrder[i].TestIntersect(ray) && m.traverseKD(childOrder[i], ray, boxOrder[i], info) {
			return true
		}
	}
	return false
}
