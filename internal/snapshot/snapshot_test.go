package snapshot

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader_Stream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	first := &Frame{
		Tick: 5,
		Time: 0.1,
		Agents: []Agent{
			{Index: 1, Gen: 1, Template: "archer", Faction: 1, X: 2.5, Y: -1, HP: 40, MaxHP: 70, Radius: 0.45},
		},
		Projectiles: []Projectile{{X: 3, Y: 3, HX: 1, Faction: 1}},
		Cues:        []Cue{{Index: 1, Gen: 1, Name: "Shoot"}},
	}
	second := &Frame{Tick: 10, Time: 0.2}

	require.NoError(t, w.Write(first))
	require.NoError(t, w.Write(second))

	r := NewReader(&buf)

	got, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.Tick)
	assert.Empty(t, got.Agents)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_RejectsOversizedFrame(t *testing.T) {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], MaxFrameSize+1)

	_, err := NewReader(bytes.NewReader(hdr[:])).Read()
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReader_TruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(&Frame{Tick: 1, Agents: []Agent{{Template: "x"}}}))
	data := buf.Bytes()[:buf.Len()-2]

	_, err := NewReader(bytes.NewReader(data)).Read()
	assert.Error(t, err)
}
