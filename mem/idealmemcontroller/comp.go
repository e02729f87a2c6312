// Package idealmemcontroller provides a memory that serves every access in a
// fixed number of cycles.
package idealmemcontroller

// A Comp is an ideal memory controller. It always responds in a fixed number
// of cycles, regardless of the address or of the accesses before it. It holds
// no data.
type Comp struct {
	name        string
	Latency     uint64
	numAccesses uint64
}

// Name returns the name of the memory controller.
func (c *Comp) Name() string {
	return c.name
}

// Access returns the fixed latency of the memory.
func (c *Comp) Access(addr uint64) uint64 {
	c.numAccesses++
	return c.Latency
}

// NumAccesses returns how many accesses have reached the memory.
func (c *Comp) NumAccesses() uint64 {
	return c.numAccesses
}
