// Copyright (c) 2025 WNI

package ru_test

import (
	"time"

	"github.com/wni-ru/ru"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Node", func() {
	Context("scalar leaves", func() {
		It("gets and sets an integer value directly", func() {
			root, _, err := ru.ParseSchema("v:INT32")
			Expect(err).ToNot(HaveOccurred())
			v, err := root.Member("v")
			Expect(err).ToNot(HaveOccurred())
			v.SetInt(-7)
			Expect(v.Int()).To(Equal(int64(-7)))
		})

		It("gets and sets a floating point value directly", func() {
			root, _, err := ru.ParseSchema("v:FLOAT64")
			Expect(err).ToNot(HaveOccurred())
			v, _ := root.Member("v")
			v.SetFloat(3.5)
			Expect(v.Float()).To(Equal(3.5))
		})
	})

	Context("scalar-element arrays", func() {
		It("supports append and indexed access", func() {
			root, _, err := ru.ParseSchema("xs:{3}UINT16")
			Expect(err).ToNot(HaveOccurred())
			xs, _ := root.Member("xs")
			for i := int64(1); i <= 3; i++ {
				_, err := xs.Append(i)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(xs.Len()).To(Equal(3))
			e, err := xs.At(1)
			Expect(err).ToNot(HaveOccurred())
			Expect(e.Int()).To(Equal(int64(2)))
		})

		It("fails IndexOutOfRange past the end", func() {
			root, _, _ := ru.ParseSchema("xs:{1}UINT16")
			xs, _ := root.Member("xs")
			_, err := xs.Append(int64(1))
			Expect(err).ToNot(HaveOccurred())
			_, err = xs.At(5)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("struct-element arrays", func() {
		It("grows via AppendNew and exposes each element as a struct", func() {
			root, _, _ := ru.ParseSchema("rows:+[id:UINT32]")
			rows, _ := root.Member("rows")
			e, err := rows.AppendNew()
			Expect(err).ToNot(HaveOccurred())
			Expect(e.NodeKind()).To(Equal(ru.KindStruct))
			idField, err := e.Member("id")
			Expect(err).ToNot(HaveOccurred())
			idField.SetInt(9)
			Expect(rows.Len()).To(Equal(1))
		})
	})

	Context("time-shaped structs", func() {
		It("recognizes year/mon/day/hour/min and projects to a time.Time", func() {
			root, _, _ := ru.ParseSchema("t:[year:UINT16,mon:UINT8,day:UINT8,hour:UINT8,min:UINT8]")
			t, _ := root.Member("t")
			Expect(t.IsTimeStruct()).To(BeTrue())

			yearF, _ := t.Member("year")
			yearF.SetInt(2023)
			monF, _ := t.Member("mon")
			monF.SetInt(12)
			dayF, _ := t.Member("day")
			dayF.SetInt(25)
			hourF, _ := t.Member("hour")
			hourF.SetInt(23)
			minF, _ := t.Member("min")
			minF.SetInt(59)

			ts, err := t.GetTime()
			Expect(err).ToNot(HaveOccurred())
			Expect(ts).To(Equal(time.Date(2023, 12, 25, 23, 59, 0, 0, time.UTC)))
		})

		It("round-trips through SetTime", func() {
			root, _, _ := ru.ParseSchema("t:[year:UINT16,mon:UINT8,day:UINT8]")
			t, _ := root.Member("t")
			Expect(t.SetTime(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))).To(Succeed())
			y, mo, d, _, _, _ := t.GetTimeTuple()
			Expect([]int{y, mo, d}).To(Equal([]int{2020, 1, 2}))
		})

		It("is not mistaken for a time struct without day", func() {
			root, _, _ := ru.ParseSchema("t:[year:UINT16,mon:UINT8]")
			t, _ := root.Member("t")
			Expect(t.IsTimeStruct()).To(BeFalse())
		})

		It("rejects a struct with a non-time member even if year/mon/day are present", func() {
			root, _, _ := ru.ParseSchema("t:[year:UINT16,mon:UINT8,day:UINT8,extra:UINT8]")
			t, _ := root.Member("t")
			Expect(t.IsTimeStruct()).To(BeFalse())
		})
	})
})
