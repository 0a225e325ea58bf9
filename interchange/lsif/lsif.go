// Package lsif is the reference implementation for the L-System Interchange Format
package lsif

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aabizri/plantgen/interchange"
)

//go:embed defaults.lsif.yml
var defaultsYAML []byte

type Format struct {
	Initial    string             `yaml:"initial"`
	Iterations uint               `yaml:"iterations"`
	Seed       int64              `yaml:"seed"`
	MaxLength  int                `yaml:"max_length"`
	Constants  map[string]float64 `yaml:"constants"`
	Rules      map[string][]Rule  `yaml:"rules"`
	Shapes     map[string]Shape   `yaml:"shapes"`
}

type Rule struct {
	Replacement string     `yaml:"replacement"`
	Weight      Expression `yaml:"weight"`
}

// Shape must set exactly one of Line and Circle.
type Shape struct {
	Line   *Line   `yaml:"line"`
	Circle *Circle `yaml:"circle"`
}

type Line struct {
	Width  float64 `yaml:"width"`
	Length float64 `yaml:"length"`
	Turn   float64 `yaml:"turn"`
	Color  Color   `yaml:"color"`
}

type Circle struct {
	Radius float64 `yaml:"radius"`
	Color  Color   `yaml:"color"`
}

// Color is an RGB triple in 0-1.
type Color []float64

// Expression is kept as written, numbers included, and evaluated on import.
type Expression string

func (e *Expression) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expression must be a scalar", value.Line)
	}
	*e = Expression(value.Value)
	return nil
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	yamlDecoder := yaml.NewDecoder(in)
	yamlDecoder.KnownFields(true)

	return &Decoder{
		in:          in,
		yamlDecoder: yamlDecoder,
	}
}

// Decode reads the next document of the stream, returning io.EOF once exhausted.
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	err := dec.yamlDecoder.Decode(format)
	if err == io.EOF {
		return nil, err
	} else if err != nil {
		return nil, errors.Wrap(err, "decoding lsif document")
	}
	return format, nil
}

// Default returns the built-in plant.
func Default() (*Format, error) {
	return NewDecoder(bytes.NewReader(defaultsYAML)).Decode()
}

// Load imports the first document of the named file, or the built-in plant
// when name is empty.
func Load(name string) (interchange.Definition, error) {
	var (
		format *Format
		err    error
	)
	if name == "" {
		format, err = Default()
	} else {
		var f *os.File
		f, err = os.Open(name)
		if err != nil {
			return interchange.Definition{}, errors.Wrap(err, "opening lsif file")
		}
		defer f.Close()
		format, err = NewDecoder(f).Decode()
	}
	if err == io.EOF {
		return interchange.Definition{}, errors.Errorf("%s: no lsif document", name)
	} else if err != nil {
		return interchange.Definition{}, err
	}
	return format.Import()
}
