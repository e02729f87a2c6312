package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var tags *tagArrayImpl

	BeforeEach(func() {
		tags = NewTagArray(1024, 4, 64).(*tagArrayImpl)
	})

	It("should be able to get total size", func() {
		Expect(tags.TotalSize()).To(Equal(uint64(262144)))
	})

	It("should start with all blocks invalid and unused", func() {
		set, setID := tags.GetSet(0x40)

		Expect(setID).To(Equal(1))
		Expect(set.Blocks).To(HaveLen(4))
		for i, b := range set.Blocks {
			Expect(b.IsValid).To(BeFalse())
			Expect(b.Tag).To(BeZero())
			Expect(b.Recency).To(BeZero())
			Expect(b.SetID).To(Equal(1))
			Expect(b.WayID).To(Equal(i))
		}
	})

	It("should lookup", func() {
		set, _ := tags.GetSet(0x10040)
		set.Blocks[2].Tag = tags.Locate(0x10040).Tag
		set.Blocks[2].IsValid = true

		block, ok := tags.Lookup(0x10040)

		Expect(ok).To(BeTrue())
		Expect(block.WayID).To(Equal(2))
		Expect(block.SetID).To(Equal(1))
	})

	It("should not find a block with matching tag in another set", func() {
		set, _ := tags.GetSet(0x10040)
		set.Blocks[0].Tag = tags.Locate(0x10040).Tag
		set.Blocks[0].IsValid = true

		_, ok := tags.Lookup(0x10080)

		Expect(ok).To(BeFalse())
	})

	It("should not find an invalid block even if tag matches", func() {
		_, ok := tags.Lookup(0)

		Expect(ok).To(BeFalse())
	})

	It("should update block", func() {
		block := Block{SetID: 3, WayID: 1, Tag: 7, IsValid: true}

		tags.Update(block)

		set, _ := tags.GetSet(0xc0)
		Expect(set.Blocks[1]).To(Equal(block))
	})

	It("should promote visited block and compact the others", func() {
		set, _ := tags.GetSet(0)

		for way := 0; way < 4; way++ {
			tags.Visit(set.Blocks[way])
		}
		Expect(set.Recencies()).To(Equal([]int{1, 2, 3, 4}))

		tags.Visit(set.Blocks[1])
		Expect(set.Recencies()).To(Equal([]int{1, 4, 2, 3}))

		tags.Visit(set.Blocks[3])
		Expect(set.Recencies()).To(Equal([]int{1, 3, 2, 4}))
	})

	It("should fill an empty set in increasing recency", func() {
		set, _ := tags.GetSet(0)

		tags.Visit(set.Blocks[0])
		Expect(set.Recencies()).To(Equal([]int{4, 0, 0, 0}))

		tags.Visit(set.Blocks[1])
		Expect(set.Recencies()).To(Equal([]int{3, 4, 0, 0}))
	})

	It("should not change recency when visiting the most recent block", func() {
		set, _ := tags.GetSet(0)
		tags.Visit(set.Blocks[0])
		tags.Visit(set.Blocks[1])

		tags.Visit(set.Blocks[1])

		Expect(set.Recencies()).To(Equal([]int{3, 4, 0, 0}))
	})

	It("should invalidate everything on reset", func() {
		set, _ := tags.GetSet(0)
		set.Blocks[0].IsValid = true
		tags.Visit(set.Blocks[0])

		tags.Reset()

		set, _ = tags.GetSet(0)
		Expect(set.Blocks[0].IsValid).To(BeFalse())
		Expect(set.Recencies()).To(Equal([]int{0, 0, 0, 0}))
	})
})
