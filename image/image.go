// Package image reads and writes novavm program images.
//
// The text form of an image is one `0xHH` token per byte, whitespace
// separated, any number per line. A `[[DATA]]` line separates the code
// bytes from the data bytes.
package image

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/novavm/cpu"
)

// DATA_MARKER separates code from data, in both images and source text.
const DATA_MARKER = "[[DATA]]"

// CutDataMarker reports whether a source line is a data marker line, and
// returns the text following the marker. Leading blanks are allowed.
func CutDataMarker(line string) (rest string, ok bool) {
	return strings.CutPrefix(strings.TrimLeft(line, " \t"), DATA_MARKER)
}

// BYTES_PER_LINE is the number of byte tokens per line written by Write.
const BYTES_PER_LINE = 16

// Image is an assembled program.
type Image struct {
	Code []byte // Loaded into machine memory.
	Data []byte // Loaded into machine data.
}

// Load copies the image into a machine.
func (img *Image) Load(m *cpu.Machine) (err error) {
	return m.Load(img.Code, img.Data)
}

// ParseByte parses a single `0xHH` token.
func ParseByte(word string) (b byte, err error) {
	if len(word) != 4 || !strings.HasPrefix(word, "0x") {
		err = ErrInvalidByteLiteral(word)
		return
	}

	v64, err := strconv.ParseUint(word[2:], 16, 8)
	if err != nil {
		err = ErrInvalidByteLiteral(word)
		return
	}

	b = byte(v64)
	return
}

// Parse reads the text form of an image.
func Parse(input io.Reader) (img *Image, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Err: err}
		}
	}()

	img = &Image{}
	stream := &img.Code
	in_data := false

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		if line == DATA_MARKER {
			if in_data {
				err = ErrDataDuplicate
				return
			}
			in_data = true
			stream = &img.Data
			continue
		}

		for _, word := range strings.Fields(line) {
			var b byte
			b, err = ParseByte(word)
			if err != nil {
				return
			}
			*stream = append(*stream, b)
		}
	}

	err = scanner.Err()
	return
}

// Write writes the text form of the image.
func (img *Image) Write(output io.Writer) (err error) {
	w := bufio.NewWriter(output)

	writeBytes := func(data []byte) {
		for n, b := range data {
			if n%BYTES_PER_LINE != 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "0x%02X", b)
			if n%BYTES_PER_LINE == BYTES_PER_LINE-1 || n == len(data)-1 {
				w.WriteByte('\n')
			}
		}
	}

	writeBytes(img.Code)
	w.WriteString(DATA_MARKER + "\n")
	writeBytes(img.Data)

	return w.Flush()
}

// String returns the text form of the image.
func (img *Image) String() string {
	var text strings.Builder
	img.Write(&text)
	return text.String()
}
