package cache

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/mem/cache/tagging"
	"github.com/sarchlab/cachesim/sim/hooking"
)

var _ = Describe("Builder", func() {
	It("should reject a non power of two set count", func() {
		c, err := MakeBuilder().
			WithNumSets(3).
			WithLowerLevel(LowerLevelFunc(func(uint64) uint64 { return 0 })).
			Build("L1D")

		Expect(c).To(BeNil())

		var configErr *ConfigError
		Expect(errors.As(err, &configErr)).To(BeTrue())
		Expect(configErr.Cache).To(Equal("L1D"))
		Expect(configErr.Field).To(Equal("NumSets"))
	})

	It("should require a lower level", func() {
		_, err := MakeBuilder().Build("L2")

		var configErr *ConfigError
		Expect(errors.As(err, &configErr)).To(BeTrue())
		Expect(configErr.Field).To(Equal("LowerLevel"))
	})

	It("should build with the given geometry", func() {
		c, err := MakeBuilder().
			WithConfig(Config{NumSets: 8, WayAssociativity: 2, HitLatency: 3}).
			WithBlockSize(32).
			WithLowerLevel(LowerLevelFunc(func(uint64) uint64 { return 0 })).
			Build("L1I")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Name()).To(Equal("L1I"))
		Expect(c.HitLatency()).To(Equal(uint64(3)))
		Expect(c.Tags().NumSets()).To(Equal(8))
		Expect(c.Tags().NumWays()).To(Equal(2))
		Expect(c.Tags().BlockSize()).To(Equal(32))
		Expect(c.Stats()).To(BeZero())
	})
})

var _ = Describe("Cache", func() {
	var (
		mockCtrl   *gomock.Controller
		lowerLevel *MockLowerLevel
		c          *Cache
	)

	build := func(numSets, numWays int) {
		var err error
		c, err = MakeBuilder().
			WithNumSets(numSets).
			WithWayAssociativity(numWays).
			WithBlockSize(64).
			WithHitLatency(1).
			WithLowerLevel(lowerLevel).
			Build("cache")
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		lowerLevel = NewMockLowerLevel(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic if not built", func() {
		var zero Cache

		Expect(func() { zero.Access(0) }).To(Panic())
	})

	It("should miss on cold access and charge the lower level", func() {
		build(4, 2)
		lowerLevel.EXPECT().Access(uint64(0x1000)).Return(uint64(110))

		latency := c.Access(0x1000)

		Expect(latency).To(Equal(uint64(111)))
		Expect(c.Stats()).To(Equal(Stats{
			References:    1,
			Misses:        1,
			PenaltyCycles: 110,
		}))
	})

	It("should hit on re-access without calling the lower level", func() {
		build(4, 2)
		lowerLevel.EXPECT().Access(uint64(0x1000)).Return(uint64(10)).Times(1)

		c.Access(0x1000)
		latency := c.Access(0x1000)

		Expect(latency).To(Equal(uint64(1)))
		Expect(c.Stats().References).To(Equal(uint64(2)))
		Expect(c.Stats().Misses).To(Equal(uint64(1)))
	})

	It("should hit on another byte of the same block", func() {
		build(4, 2)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(10)).Times(1)

		c.Access(0x1000)

		Expect(c.Access(0x103f)).To(Equal(uint64(1)))
	})

	It("should follow the two-way single-set scenario", func() {
		build(1, 2)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(100)).AnyTimes()

		Expect(c.Access(0)).To(Equal(uint64(101)))
		Expect(c.Access(64)).To(Equal(uint64(101)))
		Expect(c.Access(128)).To(Equal(uint64(101)))
		Expect(c.Access(64)).To(Equal(uint64(1)))
		Expect(c.Access(0)).To(Equal(uint64(101)))

		Expect(c.Stats()).To(Equal(Stats{
			References:    5,
			Misses:        4,
			PenaltyCycles: 400,
		}))
	})

	It("should evict the least recently used tag", func() {
		numWays := 4
		build(2, numWays)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(50)).AnyTimes()

		// Tags 0..4 all map to set 0.
		addrOf := func(tag int) uint64 { return uint64(tag) * 2 * 64 }

		for tag := 0; tag <= numWays; tag++ {
			Expect(c.Access(addrOf(tag))).To(Equal(uint64(51)))
		}

		for tag := numWays; tag >= 1; tag-- {
			Expect(c.Access(addrOf(tag))).To(Equal(uint64(1)))
		}

		Expect(c.Access(addrOf(0))).To(Equal(uint64(51)))
	})

	It("should keep recently hit tags over older ones", func() {
		build(1, 2)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(9)).AnyTimes()

		c.Access(0)
		c.Access(64)
		c.Access(0)
		c.Access(128)

		Expect(c.Access(0)).To(Equal(uint64(1)))
		Expect(c.Access(64)).To(Equal(uint64(10)))
	})

	It("should keep recency a permutation once a set is full", func() {
		numWays := 4
		build(1, numWays)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(1)).AnyTimes()

		addrs := []uint64{0, 64, 128, 192, 64, 256, 0, 320, 128, 128, 64, 448}
		for _, addr := range addrs {
			c.Access(addr)

			set, _ := c.Tags().GetSet(addr)
			recencies := set.Recencies()
			valid := 0
			for _, b := range set.Blocks {
				if b.IsValid {
					valid++
				}
			}

			if valid == numWays {
				Expect(recencies).To(ConsistOf(1, 2, 3, 4))
			}
		}
	})

	It("should keep sets independent", func() {
		build(2, 1)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(5)).Times(2)

		c.Access(0)
		c.Access(64)

		Expect(c.Access(0)).To(Equal(uint64(1)))
		Expect(c.Access(64)).To(Equal(uint64(1)))
	})

	It("should satisfy references and misses bookkeeping", func() {
		build(4, 2)
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(7)).AnyTimes()

		misses := uint64(0)
		for i := uint64(0); i < 200; i++ {
			if c.Access((i*7919)%4096) > 1 {
				misses++
			}
		}

		s := c.Stats()
		Expect(s.References).To(Equal(uint64(200)))
		Expect(s.Misses).To(Equal(misses))
		Expect(s.Misses).To(BeNumerically("<=", s.References))
		Expect(s.PenaltyCycles).To(Equal(misses * 7))
	})

	It("should use the injected victim finder", func() {
		var err error
		c, err = MakeBuilder().
			WithNumSets(1).
			WithWayAssociativity(2).
			WithVictimFinder(lastWayFinder{}).
			WithLowerLevel(lowerLevel).
			Build("cache")
		Expect(err).NotTo(HaveOccurred())
		lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(1)).AnyTimes()

		c.Access(0)

		set, _ := c.Tags().GetSet(0)
		Expect(set.Blocks[1].IsValid).To(BeTrue())
		Expect(set.Blocks[0].IsValid).To(BeFalse())
	})

	Context("with hooks", func() {
		var accesses []hooking.CacheAccess

		BeforeEach(func() {
			accesses = nil
			build(1, 1)
			c.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(c))
				accesses = append(accesses, ctx.Item.(hooking.CacheAccess))
			}))
			lowerLevel.EXPECT().Access(gomock.Any()).Return(uint64(20)).AnyTimes()
		})

		It("should report hits, misses and evictions", func() {
			c.Access(0x40)
			c.Access(0x40)
			c.Access(0x80)

			Expect(accesses).To(Equal([]hooking.CacheAccess{
				{Where: "cache", Address: 0x40, Tag: 1, Latency: 21},
				{Where: "cache", Address: 0x40, Tag: 1, Hit: true, Latency: 1},
				{
					Where:      "cache",
					Address:    0x80,
					Tag:        2,
					Evicted:    true,
					EvictedTag: 1,
					Latency:    21,
				},
			}))
		})
	})
})

type lastWayFinder struct{}

func (lastWayFinder) FindVictim(
	tags tagging.TagArray,
	address uint64,
) tagging.Block {
	set, _ := tags.GetSet(address)
	return set.Blocks[len(set.Blocks)-1]
}
