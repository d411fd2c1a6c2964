package imageutil

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type recordingCloser struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (r *recordingCloser) Close() error {
	r.closed = true
	return r.closeErr
}

func TestWriteAndClose(t *testing.T) {
	errDiskFull := errors.New("disk full")
	errEncode := errors.New("bad pixel")

	tests := []struct {
		name     string
		closeErr error
		encode   error
		want     error
	}{
		{"success", nil, nil, nil},
		{"close error is reported", errDiskFull, nil, errDiskFull},
		{"encode error wins", errDiskFull, errEncode, errEncode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := &recordingCloser{closeErr: tt.closeErr}
			err := writeAndClose(wc, func(w io.Writer) error {
				if _, err := w.Write([]byte("P6")); err != nil {
					return err
				}
				return tt.encode
			})
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if !wc.closed {
				t.Error("Writer should always be closed")
			}
			if wc.String() != "P6" {
				t.Errorf("Expected encoded bytes, got %q", wc.String())
			}
		})
	}
}
