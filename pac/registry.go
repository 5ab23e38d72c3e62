package pac

import (
	"go.uber.org/atomic"
)

// Registry hands out the core and device token sets of one chip. Each set
// can be taken once; Steal mints a fresh set regardless.
type Registry struct {
	bk     Backend
	core   atomic.Bool
	device atomic.Bool
}

// NewRegistry binds a registry to a register backend.
func NewRegistry(bk Backend) *Registry {
	return &Registry{bk: bk}
}

// Backend returns the register model behind this registry.
func (r *Registry) Backend() Backend { return r.bk }

// TakeCore returns the core facilities the first time it is called and
// (nil, false) afterwards.
func (r *Registry) TakeCore() (*Set, bool) {
	if !r.core.CompareAndSwap(false, true) {
		return nil, false
	}
	return newSet(CoreIDs(), r.bk), true
}

// TakePeripherals returns the device peripherals the first time it is called
// and (nil, false) afterwards.
func (r *Registry) TakePeripherals() (*Set, bool) {
	if !r.device.CompareAndSwap(false, true) {
		return nil, false
	}
	return newSet(DeviceIDs(), r.bk), true
}

// StealCore returns a fresh core set even if one was already taken.
//
// Safety: the returned tokens may alias tokens held elsewhere. The caller
// must prove no two owners drive the same block.
func (r *Registry) StealCore() *Set {
	r.core.Store(true)
	return newSet(CoreIDs(), r.bk)
}

// StealPeripherals returns a fresh device set even if one was already taken.
//
// Safety: as for StealCore.
func (r *Registry) StealPeripherals() *Set {
	r.device.Store(true)
	return newSet(DeviceIDs(), r.bk)
}
