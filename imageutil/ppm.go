package imageutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrNotPPM is returned when the data does not start with a binary PPM
// ("P6") header.
var ErrNotPPM = errors.New("imageutil: not a binary PPM image")

// DecodePPM reads a binary Netpbm (P6) image with an 8-bit maxval.
// Comments in the header are skipped. The pixel payload must hold exactly
// width*height*3 bytes, otherwise ErrRasterSize is returned.
func DecodePPM(r io.Reader) (*RGBBuffer, error) {
	br := bufio.NewReader(r)

	magic, err := readPPMToken(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read PPM magic: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("%w: magic %q", ErrNotPPM, magic)
	}

	var fields [3]int
	for i := range fields {
		tok, err := readPPMToken(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read PPM header: %w", err)
		}
		fields[i], err = strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid PPM header field %q: %w", tok, err)
		}
	}
	width, height, maxVal := fields[0], fields[1], fields[2]
	if maxVal != 255 {
		return nil, fmt.Errorf("%w: unsupported maxval %d", ErrRasterSize, maxVal)
	}

	pix, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read PPM pixels: %w", err)
	}
	return NewRGBBuffer(width, height, pix)
}

// readPPMToken returns the next whitespace separated header token and
// consumes exactly one whitespace byte after it, as the format requires
// before the raster starts.
func readPPMToken(br *bufio.Reader) (string, error) {
	var tok bytes.Buffer
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && tok.Len() > 0 {
				return tok.String(), nil
			}
			return "", err
		}
		switch {
		case c == '#' && tok.Len() == 0:
			if _, err := br.ReadBytes('\n'); err != nil {
				return "", err
			}
		case isPPMSpace(c):
			if tok.Len() > 0 {
				return tok.String(), nil
			}
		default:
			tok.WriteByte(c)
		}
	}
}

func isPPMSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// EncodePPM writes the raster as a binary PPM (P6).
func EncodePPM(w io.Writer, img Raster) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", img.Width(), img.Height()); err != nil {
		return err
	}
	if buf, ok := img.(*RGBBuffer); ok {
		if _, err := bw.Write(buf.pix); err != nil {
			return err
		}
		return bw.Flush()
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			if _, err := bw.Write([]byte{c.R, c.G, c.B}); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
