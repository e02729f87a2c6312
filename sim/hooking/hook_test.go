package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedHookable struct {
	HookableBase
	name string
}

func (h *namedHookable) Name() string {
	return h.name
}

func accessCtx(domain Hookable, access CacheAccess) HookCtx {
	return HookCtx{
		Domain: domain,
		Pos:    HookPosCacheAccess,
		Item:   access,
	}
}

var _ = Describe("HookableBase", func() {
	var domain *namedHookable

	BeforeEach(func() {
		domain = &namedHookable{name: "L1D"}
	})

	It("should invoke hooks in registration order", func() {
		order := []int{}
		domain.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		domain.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		domain.InvokeHook(HookCtx{Domain: domain, Pos: HookPosCacheAccess})

		Expect(order).To(Equal([]int{1, 2}))
		Expect(domain.NumHooks()).To(Equal(2))
	})

	It("should panic on duplicated hook", func() {
		tracer := NewAccessCountTracer(nil)
		domain.AcceptHook(tracer)

		Expect(func() { domain.AcceptHook(tracer) }).To(Panic())
	})
})

var _ = Describe("AccessCountTracer", func() {
	var (
		domain *namedHookable
		tracer *AccessCountTracer
	)

	BeforeEach(func() {
		domain = &namedHookable{name: "L2"}
		tracer = NewAccessCountTracer(nil)
		domain.AcceptHook(tracer)
	})

	It("should count hits, misses and evictions per cache", func() {
		domain.InvokeHook(accessCtx(domain, CacheAccess{Where: "L2", Hit: true}))
		domain.InvokeHook(accessCtx(domain, CacheAccess{Where: "L2"}))
		domain.InvokeHook(accessCtx(domain,
			CacheAccess{Where: "L2", Evicted: true, EvictedTag: 3}))
		domain.InvokeHook(accessCtx(domain, CacheAccess{Where: "L1I"}))

		Expect(tracer.Count("L2")).To(Equal(AccessCount{
			Hits:      1,
			Misses:    2,
			Evictions: 1,
		}))
		Expect(tracer.Count("L1I").Misses).To(Equal(uint64(1)))
		Expect(tracer.Names()).To(Equal([]string{"L1I", "L2"}))
	})

	It("should ignore other hook positions", func() {
		domain.InvokeHook(HookCtx{
			Domain: domain,
			Pos:    &HookPos{Name: "Other"},
		})

		Expect(tracer.Names()).To(BeEmpty())
	})

	It("should apply the filter", func() {
		filtered := NewAccessCountTracer(func(a CacheAccess) bool {
			return a.Where == "L1D"
		})
		domain.AcceptHook(filtered)

		domain.InvokeHook(accessCtx(domain, CacheAccess{Where: "L2"}))

		Expect(filtered.Count("L2")).To(BeZero())
		Expect(tracer.Count("L2").Misses).To(Equal(uint64(1)))
	})
})

var _ = Describe("AverageLatencyTracer", func() {
	It("should return 0 when empty", func() {
		tracer := NewAverageLatencyTracer(nil)

		Expect(tracer.AverageLatency()).To(Equal(0.0))
	})

	It("should average the latencies", func() {
		domain := &namedHookable{name: "L1D"}
		tracer := NewAverageLatencyTracer(nil)
		domain.AcceptHook(tracer)

		domain.InvokeHook(accessCtx(domain, CacheAccess{Latency: 1}))
		domain.InvokeHook(accessCtx(domain, CacheAccess{Latency: 111}))

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.TotalLatency()).To(Equal(uint64(112)))
		Expect(tracer.AverageLatency()).To(Equal(56.0))
	})
})

var _ = Describe("LogHook", func() {
	It("should print one line per access", func() {
		buf := new(bytes.Buffer)
		hook := NewLogHook(log.New(buf, "", 0), nil)

		hook.Func(HookCtx{
			Pos: HookPosCacheAccess,
			Item: CacheAccess{
				Where:   "L1I",
				Address: 0x40,
				SetID:   1,
				Hit:     true,
				Latency: 2,
			},
		})
		hook.Func(HookCtx{
			Pos: HookPosCacheAccess,
			Item: CacheAccess{
				Where:      "L2",
				Address:    0x80,
				WayID:      3,
				Evicted:    true,
				EvictedTag: 0x1f,
				Latency:    110,
			},
		})

		Expect(buf.String()).To(Equal(
			"L1I 0x40 hit set=1 way=0 latency=2\n" +
				"L2 0x80 miss set=0 way=3 latency=110 evict=0x1f\n"))
	})
})
