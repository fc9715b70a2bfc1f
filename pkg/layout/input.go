package layout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/circlepack/pkg/core/packer"
	"github.com/matzehuels/circlepack/pkg/errors"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DefaultRatio is the aspect ratio used when an input omits it.
const DefaultRatio = 1.0

// Input is a packing request.
type Input struct {
	Radii []float64 `json:"radii" toml:"radii"`
	Ratio float64   `json:"ratio,omitempty" toml:"ratio"`
	Seed  uint64    `json:"seed,omitempty" toml:"seed"`
}

// WithDefaults fills in a zero ratio and seed.
func (in Input) WithDefaults() Input {
	if in.Ratio == 0 {
		in.Ratio = DefaultRatio
	}
	if in.Seed == 0 {
		in.Seed = packer.DefaultSeed
	}
	return in
}

// Validate checks radii and ratio.
func (in Input) Validate() error {
	if err := errors.ValidateRadii(in.Radii); err != nil {
		return err
	}
	return errors.ValidateRatio(in.Ratio)
}

// FormatFromPath picks a format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// UnmarshalInput decodes an Input and applies defaults. It does not validate.
func UnmarshalInput(data []byte, format Format) (Input, error) {
	var in Input
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&in); err != nil {
			return Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml input")
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &in); err != nil {
			return Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json input")
		}
	default:
		return Input{}, errors.New(errors.ErrCodeUnsupported, "input format %q", format)
	}
	return in.WithDefaults(), nil
}

// ReadInputFile reads and validates an Input file.
func ReadInputFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return Input{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	in, err := UnmarshalInput(data, FormatFromPath(path))
	if err != nil {
		return Input{}, err
	}
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}
