// Copyright (c) 2025 WNI

package ru_test

import (
	"bytes"
	"errors"
	"time"

	"github.com/wni-ru/ru"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fullHeader() *ru.Header {
	h := ru.NewHeader()
	h.SetTime(ru.KeyAnnounced, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	h.SetTime(ru.KeyCreated, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	Expect(h.Set(ru.KeyGlobalID, "ABCD")).To(Succeed())
	Expect(h.Set(ru.KeyCategory, "WXYZ")).To(Succeed())
	Expect(h.Set(ru.KeyDataID, "12345678")).To(Succeed())
	Expect(h.Set(ru.KeyDataName, "sample")).To(Succeed())
	h.SetDataSize(0)
	Expect(h.Set(ru.KeyFormat, "v:INT32")).To(Succeed())
	Expect(h.Set(ru.KeyHeaderComment, "")).To(Succeed())
	Expect(h.Set(ru.KeyHeaderVersion, "1")).To(Succeed())
	Expect(h.Set(ru.KeyRevision, "1")).To(Succeed())
	return h
}

var _ = Describe("Header", func() {
	Context("Save/Load round trip", func() {
		It("reproduces every set key across a save/load cycle", func() {
			h := fullHeader()
			var buf bytes.Buffer
			Expect(h.Save(&buf)).To(Succeed())

			loaded, err := ru.LoadHeader(&buf, true)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.Get(ru.KeyGlobalID)).To(Equal("ABCD"))
			Expect(loaded.Get(ru.KeyDataID)).To(Equal("12345678"))
			Expect(loaded.Time(ru.KeyAnnounced).Year()).To(Equal(2024))
		})
	})

	Context("tag length validation", func() {
		It("rejects a global_id that isn't exactly 4 characters", func() {
			h := ru.NewHeader()
			err := h.Set(ru.KeyGlobalID, "AB")
			var ruErr *ru.Error
			Expect(errors.As(err, &ruErr)).To(BeTrue())
			Expect(ruErr.Kind).To(Equal(ru.BadLength))
		})
	})

	Context("strictness", func() {
		It("fails MissingKey under strict when a non-optional key is absent", func() {
			var buf bytes.Buffer
			buf.WriteString("WN\n")
			buf.WriteString("data_name=x\n")
			buf.Write([]byte{0x04, 0x1a})
			_, err := ru.LoadHeader(&buf, true)
			var ruErr *ru.Error
			Expect(errors.As(err, &ruErr)).To(BeTrue())
			Expect(ruErr.Kind).To(Equal(ru.MissingKey))
		})

		It("tolerates a missing non-optional key when not strict", func() {
			var buf bytes.Buffer
			buf.WriteString("WN\n")
			buf.WriteString("data_name=x\n")
			buf.Write([]byte{0x04, 0x1a})
			h, err := ru.LoadHeader(&buf, false)
			Expect(err).ToNot(HaveOccurred())
			Expect(h.IsSet(ru.KeyDataID)).To(BeFalse())
			Expect(h.Get(ru.KeyDataName)).To(Equal("x"))
		})
	})

	Context("line continuation", func() {
		It("joins a backslash-continued header line", func() {
			var buf bytes.Buffer
			buf.WriteString("WN\n")
			buf.WriteString("data_name=abc\\\n" + "def\n")
			buf.Write([]byte{0x04, 0x1a})
			h, err := ru.LoadHeader(&buf, false)
			Expect(err).ToNot(HaveOccurred())
			Expect(h.Get(ru.KeyDataName)).To(Equal("abcdef"))
		})
	})

	Context("timestamp format", func() {
		It("fails InvalidHeader on an unparseable announced value", func() {
			var buf bytes.Buffer
			buf.WriteString("WN\n")
			buf.WriteString("announced=not-a-time\n")
			buf.Write([]byte{0x04, 0x1a})
			_, err := ru.LoadHeader(&buf, false)
			var ruErr *ru.Error
			Expect(errors.As(err, &ruErr)).To(BeTrue())
			Expect(ruErr.Kind).To(Equal(ru.InvalidHeader))
		})
	})
})
