package joint

// JointDef holds the fields every joint definition shares. The concrete
// definitions embed it.
type JointDef struct {
	BodyA *Body
	BodyB *Body
	// CollideConnected lets the two bodies collide with each other.
	CollideConnected bool
	UserData         any
}

func (d *JointDef) def() *JointDef {
	return d
}

// Def is implemented by the *JointDef types accepted by Arena.Create.
type Def interface {
	Kind() Kind
	def() *JointDef
	validate() error
}

func validateBodies(kind Kind, d *JointDef) error {
	if d.BodyA == nil {
		return defError(kind, "BodyA", ErrNilBody)
	}
	if d.BodyB == nil {
		return defError(kind, "BodyB", ErrNilBody)
	}
	if d.BodyA == d.BodyB {
		return defError(kind, "BodyB", ErrSameBody)
	}
	return nil
}

func validateNonNegative(kind Kind, field string, values ...float64) error {
	for _, v := range values {
		if !isValid(v) || v < 0 {
			return defError(kind, field, ErrInvalidParameter)
		}
	}
	return nil
}

func validateFinite(kind Kind, field string, values ...float64) error {
	for _, v := range values {
		if !isValid(v) {
			return defError(kind, field, ErrInvalidParameter)
		}
	}
	return nil
}
