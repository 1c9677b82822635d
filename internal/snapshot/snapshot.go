// Package snapshot encodes render frames: the transform and state of every
// agent and projectile at one simulation instant.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize bounds a single encoded frame.
const MaxFrameSize = 16 << 20

// ErrFrameTooLarge is returned for a frame over MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// Agent is the render view of one agent.
type Agent struct {
	Index     uint32  `msgpack:"i"`
	Gen       uint32  `msgpack:"g"`
	Template  string  `msgpack:"t"`
	Faction   uint8   `msgpack:"f"`
	Traversal uint8   `msgpack:"tr"`
	State     uint8   `msgpack:"s"`
	Facing    uint8   `msgpack:"d"`
	FlipX     bool    `msgpack:"fx"`
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	VX        float64 `msgpack:"vx"`
	VY        float64 `msgpack:"vy"`
	HP        float64 `msgpack:"hp"`
	MaxHP     float64 `msgpack:"mhp"`
	Radius    float64 `msgpack:"r"`
}

// Projectile is the render view of one projectile.
type Projectile struct {
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	HX       float64 `msgpack:"hx"`
	HY       float64 `msgpack:"hy"`
	Faction  uint8   `msgpack:"f"`
	Impacted bool    `msgpack:"imp"`
}

// Cue is a cosmetic trigger fired since the previous frame.
type Cue struct {
	Index uint32 `msgpack:"i"`
	Gen   uint32 `msgpack:"g"`
	Name  string `msgpack:"n"`
}

// Frame is everything a renderer needs for one picture.
type Frame struct {
	Tick        uint64       `msgpack:"tick"`
	Time        float64      `msgpack:"time"`
	Agents      []Agent      `msgpack:"agents"`
	Projectiles []Projectile `msgpack:"projectiles,omitempty"`
	Cues        []Cue        `msgpack:"cues,omitempty"`
}

// Writer writes length-prefixed msgpack frames.
type Writer struct {
	w   io.Writer
	hdr [4]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes f as a big-endian uint32 length followed by the payload.
func (w *Writer) Write(f *Frame) error {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", f.Tick, err)
	}
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame %d: %d bytes: %w", f.Tick, len(data), ErrFrameTooLarge)
	}

	binary.BigEndian.PutUint32(w.hdr[:], uint32(len(data)))
	if _, err := w.w.Write(w.hdr[:]); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("writing frame %d: %w", f.Tick, err)
	}
	return nil
}

// Reader reads frames produced by Writer.
type Reader struct {
	r   *bufio.Reader
	buf []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read decodes the next frame. Returns io.EOF at a clean end of stream.
func (r *Reader) Read() (*Frame, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("frame of %d bytes: %w", n, ErrFrameTooLarge)
	}

	if cap(r.buf) < int(n) {
		r.buf = make([]byte, n)
	}
	r.buf = r.buf[:n]
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		return nil, fmt.Errorf("reading frame body: %w", err)
	}

	var f Frame
	if err := msgpack.Unmarshal(r.buf, &f); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return &f, nil
}
