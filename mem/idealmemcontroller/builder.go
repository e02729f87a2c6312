package idealmemcontroller

// DefaultLatency is the number of cycles a memory access takes unless
// configured otherwise.
const DefaultLatency = 100

// Builder can build ideal memory controllers.
type Builder struct {
	latency uint64
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		latency: DefaultLatency,
	}
}

// WithLatency sets the latency of the memory controller
func (b Builder) WithLatency(latency uint64) Builder {
	b.latency = latency
	return b
}

// Build creates a new Comp
func (b Builder) Build(name string) *Comp {
	return &Comp{
		name:    name,
		Latency: b.latency,
	}
}
