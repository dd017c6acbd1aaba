package wire

import (
	"bufio"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-drift/actuate/pkg/core"
	"github.com/go-drift/actuate/pkg/errors"
	"github.com/go-drift/actuate/pkg/vdom"
)

// MaxFrameSize is the largest encoded frame a Decoder accepts.
const MaxFrameSize = 16 << 20

// ErrFrameTooLarge is returned by Decoder.Next for frames over MaxFrameSize.
var ErrFrameTooLarge = stderrors.New("wire: frame too large")

// StreamRenderer is a renderer that writes every change list to w as a
// length-prefixed CBOR frame.
type StreamRenderer struct {
	mu  sync.Mutex
	w   io.Writer
	seq uint64
	buf [binary.MaxVarintLen64]byte
}

// NewStreamRenderer creates a StreamRenderer writing to w.
func NewStreamRenderer(w io.Writer) *StreamRenderer {
	return &StreamRenderer{w: w}
}

// Apply encodes changes as the next frame and writes it.
func (s *StreamRenderer) Apply(changes core.ChangeList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Marshal(NewFrame(s.seq+1, changes))
	if err != nil {
		return fmt.Errorf("wire: marshal frame %d: %w", s.seq+1, err)
	}
	n := binary.PutUvarint(s.buf[:], uint64(len(data)))
	if _, err := s.w.Write(s.buf[:n]); err != nil {
		return fmt.Errorf("wire: write frame header: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	s.seq++
	return nil
}

// Frames returns the number of frames written.
func (s *StreamRenderer) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Decoder reads frames written by a StreamRenderer.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next reads the next frame. It returns io.EOF when the stream ends cleanly
// between frames.
func (d *Decoder) Next() (Frame, error) {
	size, err := binary.ReadUvarint(d.r)
	if err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		return Frame{}, d.fail(fmt.Errorf("read frame header: %w", err))
	}
	if size > MaxFrameSize {
		return Frame{}, d.fail(fmt.Errorf("%d bytes: %w", size, ErrFrameTooLarge))
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(d.r, data); err != nil {
		return Frame{}, d.fail(fmt.Errorf("read frame: %w", io.ErrUnexpectedEOF))
	}
	f, err := Unmarshal(data)
	if err != nil {
		return Frame{}, d.fail(err)
	}
	return f, nil
}

// Replay applies every remaining frame to renderer in order.
func (d *Decoder) Replay(renderer vdom.Renderer) (int, error) {
	n := 0
	for {
		f, err := d.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := renderer.Apply(f.ChangeList()); err != nil {
			return n, fmt.Errorf("wire: replay frame %d: %w", f.Seq, err)
		}
		n++
	}
}

func (d *Decoder) fail(err error) error {
	return &errors.ActuateError{
		Op:        "wire.Decoder",
		Kind:      errors.KindWire,
		Err:       err,
		Timestamp: time.Now(),
	}
}
