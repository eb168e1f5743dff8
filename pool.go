package joint

import "unsafe"

// pool accounts for the joints of one concrete type. Released values are
// zeroed and never handed out again, so a stale handle can not alias a live
// joint.
type pool[T any] struct {
	live      int
	released  int
	allocated int
}

func (p *pool[T]) get() *T {
	p.live++
	p.allocated++
	return new(T)
}

func (p *pool[T]) put(t *T) {
	var zero T
	*t = zero
	p.live--
	p.released++
}

func (p *pool[T]) stats() PoolStats {
	var zero T
	size := int(unsafe.Sizeof(zero))
	return PoolStats{
		Live:      p.live,
		Released:  p.released,
		Allocated: p.allocated,
		Bytes:     size * p.live,
	}
}

// PoolStats describes the joint pool of one kind.
type PoolStats struct {
	Live      int // joints in use
	Released  int // joints destroyed
	Allocated int // joints ever created
	Bytes     int // bytes held by live joints
}
