package math

// Transform is an affine placement made of a uniform scale, then a rotation,
// then a translation. Composing two of them is again a Transform.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       float32
}

// TransformIdentity returns the transform that leaves points unchanged.
func TransformIdentity() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    1,
	}
}

// TransformAt returns an identity transform moved to t.
func TransformAt(t Vec3) Transform {
	tr := TransformIdentity()
	tr.Translation = t
	return tr
}

// Apply maps a local point into the transform's parent space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Scale(t.Scale)).Add(t.Translation)
}

// Compose returns t ∘ child: applying the result equals applying child, then t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Translation: t.Apply(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:       t.Scale * child.Scale,
	}
}

// Matrix returns the column-major matrix T * R * S.
func (t Transform) Matrix() Mat4 {
	s := t.Scale
	return Translate(t.Translation).Mul(t.Rotation.ToMat4()).Mul(Scale(Vec3{s, s, s}))
}
