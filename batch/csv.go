package batch

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

type instanceRecord struct {
	Frame    int     `csv:"frame"`
	Kind     string  `csv:"kind"`
	Index    int     `csv:"index"`
	X        float32 `csv:"x"`
	Y        float32 `csv:"y"`
	ScaleX   float32 `csv:"scale_x"`
	ScaleY   float32 `csv:"scale_y"`
	Rotation float32 `csv:"rotation"`
	R        float32 `csv:"r"`
	G        float32 `csv:"g"`
	B        float32 `csv:"b"`
}

// CSVUploader writes every uploaded instance as a CSV row. The header is
// written with the first successful non-empty upload. Batcher.Finalize
// uploads lines first, so each lines upload opens a new frame, whether or
// not the previous frame's writes succeeded.
type CSVUploader struct {
	w             io.Writer
	frame         int
	started       bool
	headerWritten bool
}

func NewCSVUploader(w io.Writer) *CSVUploader {
	return &CSVUploader{w: w}
}

func (u *CSVUploader) Upload(kind Kind, instances []Instance) error {
	if kind == Lines {
		if u.started {
			u.frame++
		}
		u.started = true
	}

	if len(instances) == 0 {
		return nil
	}

	records := make([]instanceRecord, len(instances))
	for i, inst := range instances {
		records[i] = instanceRecord{
			Frame:    u.frame,
			Kind:     kind.String(),
			Index:    i,
			X:        inst.Position.X,
			Y:        inst.Position.Y,
			ScaleX:   inst.Scale.X,
			ScaleY:   inst.Scale.Y,
			Rotation: inst.Rotation,
			R:        inst.Color.R,
			G:        inst.Color.G,
			B:        inst.Color.B,
		}
	}

	if !u.headerWritten {
		if err := gocsv.Marshal(records, u.w); err != nil {
			return errors.Wrap(err, "writing instance csv")
		}
		u.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, u.w); err != nil {
		return errors.Wrap(err, "writing instance csv")
	}
	return nil
}
