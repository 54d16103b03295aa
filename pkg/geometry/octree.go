package geometry

import (
	"github.com/df07/go-octree-raytracer/pkg/core"
)

// OctreeConfig controls how the octree subdivides space
type OctreeConfig struct {
	HalfSize   float64 // Root cube spans [-HalfSize, HalfSize] on every axis
	MaxDepth   int     // Children created at this depth or deeper become leaves
	MaxObjects int     // Children holding fewer triangles than this become leaves
	Padding    float64 // Expansion applied to octant and triangle boxes before overlap tests
}

// DefaultOctreeConfig returns the standard subdivision settings
func DefaultOctreeConfig() OctreeConfig {
	return OctreeConfig{
		HalfSize:   10,
		MaxDepth:   7,
		MaxObjects: 100,
		Padding:    1e-2,
	}
}

// FitHalfSize returns the largest absolute vertex coordinate, the half size
// of the smallest origin-centred cube holding every triangle
func FitHalfSize(triangles []Triangle) float64 {
	var extent float64
	for i := range triangles {
		box := triangles[i].BoundingBox()
		for _, c := range []float64{box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z} {
			if c < 0 {
				c = -c
			}
			if c > extent {
				extent = c
			}
		}
	}
	return extent
}

// OctreeStats describes the shape of a built octree
type OctreeStats struct {
	EmptyPruned    int // Children dropped because no triangle overlapped them
	StoppedByDepth int // Leaves created because MaxDepth was reached
	StoppedByCount int // Leaves created because they held fewer than MaxObjects triangles
	Nodes          int
	Leaves         int
	Depth          int // Deepest level reached, root is 0
	Outside        int // Triangles lying entirely outside the root cube
}

// OctreeNode is one cell of the octree arena
type OctreeNode struct {
	Bounds    core.AABB
	Triangles []int    // Triangle indices, leaves only
	Children  [8]int32 // Arena indices, -1 for pruned octants
	Leaf      bool
}

// TriangleHit is the nearest triangle found along a ray
type TriangleHit struct {
	Index int
	T     float64
	U, V  float64 // Barycentric weights of V[1] and V[2]
}

var noChildren = [8]int32{-1, -1, -1, -1, -1, -1, -1, -1}

// Octree indexes triangles by position. Nodes live in a single slice and
// reference their children by index; the root is always node 0.
// Indices are only meaningful against the triangle slice passed to Build.
type Octree struct {
	config OctreeConfig
	nodes  []OctreeNode
	stats  OctreeStats
}

// NewOctree creates an empty octree
func NewOctree(config OctreeConfig) *Octree {
	return &Octree{config: config}
}

// Config returns the subdivision settings
func (o *Octree) Config() OctreeConfig {
	return o.config
}

// Build replaces the tree with one indexing triangles
func (o *Octree) Build(triangles []Triangle) OctreeStats {
	o.nodes = o.nodes[:0]
	o.stats = OctreeStats{}

	boxes := make([]core.AABB, len(triangles))
	all := make([]int, len(triangles))
	root := core.NewCube(o.config.HalfSize)
	for i := range triangles {
		boxes[i] = triangles[i].BoundingBox().Expand(o.config.Padding)
		all[i] = i
		if !root.Overlaps(boxes[i]) {
			o.stats.Outside++
		}
	}

	o.nodes = append(o.nodes, OctreeNode{Bounds: root, Triangles: all, Children: noChildren})
	o.split(0, 0, boxes)

	o.stats.Nodes = len(o.nodes)
	o.stats.Leaves = o.stats.StoppedByDepth + o.stats.StoppedByCount
	return o.stats
}

// split distributes a node's triangles over its eight padded octants
func (o *Octree) split(node int32, depth int, boxes []core.AABB) {
	parent := &o.nodes[node]
	parent.Leaf = false
	bounds := parent.Bounds
	members := parent.Triangles
	parent.Triangles = nil

	for j := 0; j < 8; j++ {
		childBounds := bounds.Octant(j).Expand(o.config.Padding)

		var contained []int
		for _, i := range members {
			if childBounds.Overlaps(boxes[i]) {
				contained = append(contained, i)
			}
		}
		if len(contained) == 0 {
			o.stats.EmptyPruned++
			continue
		}

		child := int32(len(o.nodes))
		// append may move the arena, so index rather than hold pointers
		o.nodes = append(o.nodes, OctreeNode{Bounds: childBounds, Triangles: contained, Children: noChildren, Leaf: true})
		o.nodes[node].Children[j] = child
		if depth+1 > o.stats.Depth {
			o.stats.Depth = depth + 1
		}

		switch {
		case depth >= o.config.MaxDepth:
			o.stats.StoppedByDepth++
		case len(contained) < o.config.MaxObjects:
			o.stats.StoppedByCount++
		default:
			o.split(child, depth+1, boxes)
		}
	}
}

// Destroy drops every node. It is safe on a tree that was never built.
func (o *Octree) Destroy() {
	o.nodes = nil
	o.stats = OctreeStats{}
}

// Empty reports whether the tree holds no nodes
func (o *Octree) Empty() bool {
	return len(o.nodes) == 0
}

// Stats returns the statistics of the last build
func (o *Octree) Stats() OctreeStats {
	return o.stats
}

// NodeCount returns the number of retained nodes, root included
func (o *Octree) NodeCount() int {
	return len(o.nodes)
}

// Nearest returns the closest triangle hit nearer than tMax. The triangle at
// index exclude is skipped, as is any triangle for which accept returns false
// (accept may be nil). Every child box the ray enters is explored.
func (o *Octree) Nearest(ray core.Ray, triangles []Triangle, exclude int, tMax float64, accept func(int) bool) (TriangleHit, bool) {
	best := TriangleHit{Index: -1, T: tMax}
	if len(o.nodes) == 0 {
		return best, false
	}
	o.visit(0, ray, triangles, exclude, accept, &best)
	return best, best.Index >= 0
}

func (o *Octree) visit(node int32, ray core.Ray, triangles []Triangle, exclude int, accept func(int) bool, best *TriangleHit) {
	n := &o.nodes[node]
	if n.Leaf {
		for _, i := range n.Triangles {
			testTriangle(ray, triangles, i, exclude, accept, best)
		}
		return
	}

	for _, child := range n.Children {
		if child < 0 || !o.nodes[child].Bounds.HitInv(ray) {
			continue
		}
		o.visit(child, ray, triangles, exclude, accept, best)
	}
}

// NearestTriangle is the brute-force counterpart of Octree.Nearest.
// Both resolve equal distances to the lowest index, so they agree exactly.
func NearestTriangle(ray core.Ray, triangles []Triangle, exclude int, tMax float64, accept func(int) bool) (TriangleHit, bool) {
	best := TriangleHit{Index: -1, T: tMax}
	for i := range triangles {
		testTriangle(ray, triangles, i, exclude, accept, &best)
	}
	return best, best.Index >= 0
}

func testTriangle(ray core.Ray, triangles []Triangle, i, exclude int, accept func(int) bool, best *TriangleHit) {
	if i == exclude {
		return
	}
	if accept != nil && !accept(i) {
		return
	}
	t, u, v, ok := triangles[i].Intersect(ray)
	if !ok {
		return
	}
	if t < best.T || (t == best.T && best.Index >= 0 && i < best.Index) {
		*best = TriangleHit{Index: i, T: t, U: u, V: v}
	}
}
