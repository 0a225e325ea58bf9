package batch

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/shape"
	"github.com/aabizri/plantgen/turtle"
)

func instance(i int) Instance {
	return Instance{Position: Vec2{float32(i), 0}}
}

func TestStream_ReusesStorage(t *testing.T) {
	var s Stream
	for i := 0; i < 5; i++ {
		s.Record(instance(i))
	}
	first := s.Finalize()
	require.Len(t, first, 5)
	backing := &first[0]

	for i := 0; i < 3; i++ {
		s.Record(instance(10 + i))
	}
	second := s.Finalize()

	assert.Equal(t, 3, s.Len())
	assert.GreaterOrEqual(t, s.Cap(), 5)
	assert.Same(t, backing, &second[0])
	assert.Equal(t, []Instance{instance(10), instance(11), instance(12)}, second)
}

func TestStream_Grows(t *testing.T) {
	s := NewStream(2)
	s.Record(instance(0))
	s.Finalize()

	for i := 0; i < 4; i++ {
		s.Record(instance(i))
	}
	assert.Equal(t, 4, s.Pending())
	assert.Len(t, s.Finalize(), 4)
	assert.Equal(t, 0, s.Pending())
}

func TestStream_EmptyFrame(t *testing.T) {
	var s Stream
	s.Record(instance(1))
	s.Finalize()

	assert.Empty(t, s.Finalize())
	assert.Equal(t, 0, s.Len())
}

func TestLineInstance(t *testing.T) {
	inst := LineInstance(shape.Segment{
		Start: r2.Vec{X: 0, Y: 0},
		End:   r2.Vec{X: 0, Y: 8},
		Width: 1,
		Color: shape.Color{G: 1},
	})

	assert.InDelta(t, 0, inst.Position.X, 1e-6)
	assert.InDelta(t, 4, inst.Position.Y, 1e-6)
	assert.InDelta(t, 8, inst.Scale.X, 1e-6)
	assert.InDelta(t, 1, inst.Scale.Y, 1e-6)
	assert.InDelta(t, math.Pi/2, inst.Rotation, 1e-6)
	assert.Equal(t, shape.Color{G: 1}, inst.Color)

	down := LineInstance(shape.Segment{Start: r2.Vec{X: 1, Y: 1}, End: r2.Vec{X: 0, Y: 0}})
	assert.InDelta(t, -3*math.Pi/4, down.Rotation, 1e-6)
	assert.InDelta(t, math.Sqrt2, down.Scale.X, 1e-6)
}

func TestCircleInstance(t *testing.T) {
	for _, r := range []float64{0, 0.5, 3} {
		inst := CircleInstance(shape.Circle{Center: r2.Vec{X: 2, Y: -1}, Radius: r})
		want := r * 2 / math.Sqrt(3)
		assert.InDelta(t, want, inst.Scale.X, 1e-5)
		assert.InDelta(t, want, inst.Scale.Y, 1e-5)
		assert.Equal(t, float32(0), inst.Rotation)
		assert.Equal(t, Vec2{2, -1}, inst.Position)
	}
}

type memoryUploader struct {
	uploads map[Kind][][]Instance
	fail    Kind
	err     error
}

func (m *memoryUploader) Upload(kind Kind, instances []Instance) error {
	if m.err != nil && kind == m.fail {
		return m.err
	}
	if m.uploads == nil {
		m.uploads = make(map[Kind][][]Instance)
	}
	m.uploads[kind] = append(m.uploads[kind], append([]Instance(nil), instances...))
	return nil
}

func TestBatcher_Frames(t *testing.T) {
	bindings := turtle.Bindings{
		'F': turtle.Line{Width: 0.1, Length: 1, Turn: 30},
		'A': turtle.Circle{Radius: 0.2},
	}
	var b Batcher
	var it turtle.Interpreter
	up := &memoryUploader{}

	it.Walk(plantgen.ParseSequence("F[+FA][-FA]FA"), bindings, &b)
	require.NoError(t, b.Finalize(up))
	it.Walk(plantgen.ParseSequence("FA"), bindings, &b)
	require.NoError(t, b.Finalize(up))

	require.Len(t, up.uploads[Lines], 2)
	assert.Len(t, up.uploads[Lines][0], 4)
	assert.Len(t, up.uploads[Circles][0], 3)
	assert.Len(t, up.uploads[Lines][1], 1)
	assert.Len(t, up.uploads[Circles][1], 1)

	assert.Equal(t, 1, b.Stream(Lines).Len())
	assert.GreaterOrEqual(t, b.Stream(Lines).Cap(), 4)
	assert.Equal(t, 1, b.Stream(Circles).Len())
}

func TestBatcher_UploadError(t *testing.T) {
	var b Batcher
	b.DrawCircle(shape.Circle{Radius: 1})
	boom := errors.New("boom")

	err := b.Finalize(&memoryUploader{fail: Circles, err: boom})
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))
	assert.Contains(t, err.Error(), "circles")

	// The frame is closed regardless
	assert.Equal(t, 0, b.Circles.Pending())
	assert.NoError(t, b.Finalize(nil))
}

func TestCSVUploader(t *testing.T) {
	var buf bytes.Buffer
	up := NewCSVUploader(&buf)

	var b Batcher
	b.DrawLine(shape.Segment{End: r2.Vec{Y: 2}, Width: 1})
	b.DrawCircle(shape.Circle{Radius: 1})
	require.NoError(t, b.Finalize(up))

	b.DrawLine(shape.Segment{End: r2.Vec{X: 2}, Width: 1})
	require.NoError(t, b.Finalize(up))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "frame,kind,index,x,y,scale_x,scale_y,rotation,r,g,b", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,lines,0,"))
	assert.True(t, strings.HasPrefix(lines[2], "0,circles,0,"))
	assert.True(t, strings.HasPrefix(lines[3], "1,lines,0,"))
}

// failOnce rejects its first write and passes the rest through.
type failOnce struct {
	w      bytes.Buffer
	failed bool
}

func (f *failOnce) Write(p []byte) (int, error) {
	if !f.failed {
		f.failed = true
		return 0, errors.New("disk full")
	}
	return f.w.Write(p)
}

func TestCSVUploader_FailedFrameKeepsNumbering(t *testing.T) {
	w := &failOnce{}
	up := NewCSVUploader(w)

	var b Batcher
	b.DrawLine(shape.Segment{End: r2.Vec{Y: 2}, Width: 1})
	b.DrawCircle(shape.Circle{Radius: 1})
	require.Error(t, b.Finalize(up))

	b.DrawLine(shape.Segment{End: r2.Vec{X: 2}, Width: 1})
	b.DrawCircle(shape.Circle{Radius: 1})
	require.NoError(t, b.Finalize(up))

	lines := strings.Split(strings.TrimSpace(w.w.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "frame,kind,index,x,y,scale_x,scale_y,rotation,r,g,b", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,lines,0,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "1,circles,0,"), lines[2])
}
