package image_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/novavm/cpu"
	"github.com/ezrec/novavm/image"
)

var _ = Describe("Image", func() {
	Context("ParseByte", func() {
		It("should accept two hex digits", func() {
			b, err := image.ParseByte("0x5a")
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(byte(0x5a)))

			b, err = image.ParseByte("0xFF")
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(byte(0xff)))
		})

		It("should reject everything else", func() {
			for _, word := range []string{"0x5", "0x100", "0x0100", "5a", "$5", "0xzz", "0x+5", "0X5A", ""} {
				_, err := image.ParseByte(word)
				Expect(err).To(Equal(image.ErrInvalidByteLiteral(word)), word)
			}
		})
	})

	Context("CutDataMarker", func() {
		It("should find the marker after leading blanks", func() {
			for _, line := range []string{"[[DATA]]", "  [[DATA]]", "\t[[DATA]]"} {
				rest, ok := image.CutDataMarker(line)
				Expect(ok).To(BeTrue(), line)
				Expect(rest).To(BeEmpty(), line)
			}

			rest, ok := image.CutDataMarker(" [[DATA]] text")
			Expect(ok).To(BeTrue())
			Expect(rest).To(Equal(" text"))
		})

		It("should ignore other lines", func() {
			for _, line := range []string{"", "HALT", "; [[DATA]]", "x [[DATA]]", "[[DATA]"} {
				_, ok := image.CutDataMarker(line)
				Expect(ok).To(BeFalse(), line)
			}
		})
	})

	Context("Parse", func() {
		It("should split code and data", func() {
			text := "0x50 0x04 0x10\n0x01\n[[DATA]]\n0x68 0x69 0x00\n"
			img, err := image.Parse(strings.NewReader(text))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Code).To(Equal([]byte{0x50, 0x04, 0x10, 0x01}))
			Expect(img.Data).To(Equal([]byte{'h', 'i', 0}))
		})

		It("should allow a missing data section", func() {
			img, err := image.Parse(strings.NewReader("0x00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Code).To(Equal([]byte{0x00}))
			Expect(img.Data).To(BeEmpty())
		})

		It("should report the line of a bad token", func() {
			_, err := image.Parse(strings.NewReader("0x01\n0x02 0x1234\n"))
			var se *image.ErrSyntax
			Expect(err).To(BeAssignableToTypeOf(se))
			se = err.(*image.ErrSyntax)
			Expect(se.LineNo).To(Equal(2))
			Expect(se.Err).To(Equal(image.ErrInvalidByteLiteral("0x1234")))
		})

		It("should reject a second data marker", func() {
			_, err := image.Parse(strings.NewReader("[[DATA]]\n0x01\n[[DATA]]\n"))
			Expect(err).To(MatchError(image.ErrDataDuplicate))
		})
	})

	Context("Write", func() {
		It("should round trip", func() {
			img := &image.Image{
				Code: make([]byte, 40),
				Data: []byte("Hello\x00"),
			}
			for n := range img.Code {
				img.Code[n] = byte(n * 7)
			}

			out := &bytes.Buffer{}
			Expect(img.Write(out)).To(Succeed())

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(5))
			Expect(lines[0]).To(HavePrefix("0x00 0x07 0x0E"))
			Expect(strings.Fields(lines[0])).To(HaveLen(image.BYTES_PER_LINE))
			Expect(lines[3]).To(Equal(image.DATA_MARKER))
			Expect(lines[4]).To(Equal("0x48 0x65 0x6C 0x6C 0x6F 0x00"))

			back, err := image.Parse(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(Equal(img))
		})

		It("should write an empty image", func() {
			img := &image.Image{}
			Expect(img.String()).To(Equal("[[DATA]]\n"))
		})
	})

	Context("Load", func() {
		It("should load into a machine", func() {
			img := &image.Image{Code: []byte{0x00}, Data: []byte{1, 2}}
			m := cpu.NewMachine()
			Expect(img.Load(m)).To(Succeed())
			Expect(m.Data[1]).To(Equal(byte(2)))
		})

		It("should reject oversized streams", func() {
			img := &image.Image{Data: make([]byte, cpu.DATA_SIZE+1)}
			err := img.Load(cpu.NewMachine())
			Expect(err).To(Equal(cpu.ErrCapacityExceeded{
				What: "data", Size: cpu.DATA_SIZE + 1, Capacity: cpu.DATA_SIZE,
			}))
		})
	})
})
