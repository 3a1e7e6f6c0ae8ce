package tempo

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// composeAffine builds [a, b, c, d, tx, ty] from translation, rotation and
// scale.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(x, y)
func composeAffine(x, y, rotation, sx, sy float64) [6]float64 {
	sin, cos := math.Sincos(rotation)
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, x, y}
}

// decomposeAffine is the inverse of composeAffine. Shear, if present, is
// folded into ScaleY.
func decomposeAffine(m [6]float64) (x, y, rotation, sx, sy float64) {
	sx = math.Hypot(m[0], m[1])
	if sx < 1e-12 {
		return m[4], m[5], 0, 0, math.Hypot(m[2], m[3])
	}
	rotation = math.Atan2(m[1], m[0])
	sy = (m[0]*m[3] - m[2]*m[1]) / sx
	return m[4], m[5], rotation, sx, sy
}

// computeLocalTransform computes the local affine matrix from the node's
// transform properties.
func computeLocalTransform(n *Node) [6]float64 {
	return composeAffine(n.X, n.Y, n.Rotation, n.ScaleX, n.ScaleY)
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// updateWorldTransform recomputes a node's worldTransform and worldAlpha.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetRotation sets the node's rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Animatable properties ---

// Property reads the value a tween on prop would start from.
// PropTimer always reads 0.
func (n *Node) Property(prop Property) float64 {
	switch prop {
	case PropAlpha:
		return n.Alpha
	case PropDepth3D:
		return n.Depth3D
	case PropX:
		return n.X
	case PropY:
		return n.Y
	case PropRotation:
		return n.Rotation
	case PropScaleX:
		return n.ScaleX
	case PropScaleY:
		return n.ScaleY
	default:
		return 0
	}
}

// SetProperty writes v to prop and marks the node dirty. PropTimer is a no-op.
func (n *Node) SetProperty(prop Property, v float64) {
	switch prop {
	case PropAlpha:
		n.Alpha = v
	case PropDepth3D:
		n.Depth3D = v
		return
	case PropX:
		n.X = v
	case PropY:
		n.Y = v
	case PropRotation:
		n.Rotation = v
	case PropScaleX:
		n.ScaleX = v
	case PropScaleY:
		n.ScaleY = v
	default:
		return
	}
	n.transformDirty = true
}

// --- World space ---

// WorldTransform returns the world matrix computed on the last scene update
// (or written by SetWorldTransform).
func (n *Node) WorldTransform() [6]float64 {
	return n.worldTransform
}

// WorldAlpha returns the alpha multiplied through all ancestors.
func (n *Node) WorldAlpha() float64 {
	return n.worldAlpha
}

// SetWorldTransform places the node so its world matrix equals m, rewriting
// the local X, Y, Rotation and Scale relative to the parent's current world
// matrix. Descendants are refreshed immediately.
func (n *Node) SetWorldTransform(m [6]float64) {
	local := m
	if n.Parent != nil {
		local = multiplyAffine(invertAffine(n.Parent.worldTransform), m)
	}
	n.X, n.Y, n.Rotation, n.ScaleX, n.ScaleY = decomposeAffine(local)
	n.worldTransform = m
	n.transformDirty = false
	for _, child := range n.children {
		updateWorldTransform(child, m, n.worldAlpha, true)
	}
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	inv := invertAffine(n.worldTransform)
	return transformPoint(inv, wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}
