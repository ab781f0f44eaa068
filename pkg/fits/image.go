package fits

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/matzehuels/simcluster/pkg/errors"
)

// Image is a 2D primary data unit.
type Image struct {
	Header Header    // extra keyword cards, in order
	Bitpix int       // on-disk encoding; Encode always writes -64
	Width  int       // NAXIS1
	Height int       // NAXIS2
	Data   []float64 // row-major, Data[y*Width+x]
}

// NewImage wraps data, which must hold width*height values, without copying.
func NewImage(width, height int, data []float64) *Image {
	return &Image{Bitpix: -64, Width: width, Height: height, Data: data}
}

// Encode writes img as a FITS primary HDU.
func Encode(w io.Writer, img *Image) error {
	if img.Width < 1 || img.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "image %dx%d has no pixels", img.Width, img.Height)
	}
	if len(img.Data) != img.Width*img.Height {
		return errors.New(errors.ErrCodeInvalidInput, "image data has %d values, want %d", len(img.Data), img.Width*img.Height)
	}

	bw := bufio.NewWriter(w)
	cards := []Card{
		{Key: "SIMPLE", Value: true, Comment: "conforms to FITS standard"},
		{Key: "BITPIX", Value: int64(-64), Comment: "IEEE double precision"},
		{Key: "NAXIS", Value: int64(2), Comment: "number of data axes"},
		{Key: "NAXIS1", Value: int64(img.Width), Comment: "length of x axis"},
		{Key: "NAXIS2", Value: int64(img.Height), Comment: "length of y axis"},
	}
	for _, c := range img.Header.Cards() {
		if reserved[c.Key] {
			continue
		}
		cards = append(cards, c)
	}
	cards = append(cards, Card{Key: "END"})

	n := 0
	for _, c := range cards {
		rec := formatCard(c)
		if c.Key == "END" {
			rec = pad("END")
		}
		if _, err := bw.WriteString(rec); err != nil {
			return err
		}
		n += CardSize
	}
	if _, err := bw.WriteString(strings.Repeat(" ", padding(n))); err != nil {
		return err
	}

	var buf [8]byte
	for _, v := range img.Data {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	if _, err := bw.Write(make([]byte, padding(8*len(img.Data)))); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads the primary HDU of a 2D FITS image.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)
	img := &Image{}

	block := make([]byte, BlockSize)
	var cards []Card
	ended := false
	for !ended {
		if _, err := io.ReadFull(br, block); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header block")
		}
		for off := 0; off < BlockSize; off += CardSize {
			rec := string(block[off : off+CardSize])
			if strings.TrimSpace(rec[:8]) == "END" {
				ended = true
				break
			}
			c, err := parseCard(rec)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse header")
			}
			cards = append(cards, c)
		}
	}

	all := Header{cards: cards}
	if simple, ok := all.Bool("SIMPLE"); !ok || !simple {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "not a FITS primary header (SIMPLE missing or false)")
	}
	bitpix, ok := all.Int("BITPIX")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "BITPIX missing")
	}
	naxis, _ := all.Int("NAXIS")
	if naxis != 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "NAXIS = %d, only 2D images are supported", naxis)
	}
	w, ok1 := all.Int("NAXIS1")
	h, ok2 := all.Int("NAXIS2")
	if !ok1 || !ok2 || w < 1 || h < 1 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid image axes NAXIS1=%d NAXIS2=%d", w, h)
	}
	bzero, _ := all.Float("BZERO")
	bscale, ok := all.Float("BSCALE")
	if !ok {
		bscale = 1
	}

	img.Bitpix, img.Width, img.Height = int(bitpix), int(w), int(h)
	for _, c := range cards {
		if !reserved[c.Key] {
			img.Header.cards = append(img.Header.cards, c)
		}
	}

	data, err := readData(br, img.Bitpix, img.Width*img.Height)
	if err != nil {
		return nil, err
	}
	if bzero != 0 || bscale != 1 {
		for i := range data {
			data[i] = bzero + bscale*data[i]
		}
	}
	img.Data = data
	return img, nil
}

func readData(r io.Reader, bitpix, n int) ([]float64, error) {
	size := abs(bitpix) / 8
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported BITPIX %d", bitpix)
	}

	raw := make([]byte, n*size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %d data bytes", len(raw))
	}

	out := make([]float64, n)
	be := binary.BigEndian
	for i := range out {
		b := raw[i*size : (i+1)*size]
		switch bitpix {
		case 8:
			out[i] = float64(b[0])
		case 16:
			out[i] = float64(int16(be.Uint16(b)))
		case 32:
			out[i] = float64(int32(be.Uint32(b)))
		case 64:
			out[i] = float64(int64(be.Uint64(b)))
		case -32:
			out[i] = float64(math.Float32frombits(be.Uint32(b)))
		case -64:
			out[i] = math.Float64frombits(be.Uint64(b))
		}
	}
	return out, nil
}

// padding returns the bytes needed to round n up to a whole block.
func padding(n int) int {
	if r := n % BlockSize; r != 0 {
		return BlockSize - r
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String describes the image shape, e.g. "512x512 BITPIX=-64".
func (img *Image) String() string {
	return fmt.Sprintf("%dx%d BITPIX=%d", img.Width, img.Height, img.Bitpix)
}
