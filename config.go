package nextgfx

import (
	"os"

	"github.com/bodgit/nextgfx/rgb332"
	"github.com/bodgit/nextgfx/sprite"
	"github.com/bodgit/nextgfx/tilemap"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every export. The zero value is not
// useful, start from DefaultConfig.
type Config struct {
	// Transparent is the palette index written for fully transparent
	// pixels and Alternative the index used for opaque colors that would
	// otherwise quantize to it.
	Transparent uint8 `yaml:"transparent"`
	Alternative uint8 `yaml:"alternative"`

	// Reference is a named point such as "bottom-center" or a "x,y" pair
	// in the range 0 to 1.
	Reference string `yaml:"reference"`

	Balloon tilemap.Balloon `yaml:"balloon"`
}

// DefaultConfig returns the hardware defaults.
func DefaultConfig() Config {
	q := rgb332.Default()
	return Config{
		Transparent: q.Transparent,
		Alternative: q.Alternative,
		Reference:   "bottom-center",
		Balloon:     tilemap.DefaultBalloon,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(file string) (Config, error) {
	config := DefaultConfig()

	b, err := os.ReadFile(file)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(b, &config); err != nil {
		return Config{}, errors.Wrapf(err, "parsing %s", file)
	}

	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid %s", file)
	}

	return config, nil
}

// Validate checks the settings are usable.
func (c Config) Validate() error {
	if c.Transparent == c.Alternative {
		return errors.Errorf("alternative index %d must differ from transparent index", c.Alternative)
	}
	if _, err := sprite.ParsePoint(c.Reference); err != nil {
		return err
	}
	if c.Balloon.Width <= 0 || c.Balloon.Height <= 0 || c.Balloon.X < 0 || c.Balloon.Y < 0 {
		return errors.Errorf("invalid balloon window %dx%d at (%d, %d)", c.Balloon.Width, c.Balloon.Height, c.Balloon.X, c.Balloon.Y)
	}
	if c.Balloon.Palette > 0x0f {
		return errors.Errorf("balloon palette %d does not fit in four bits", c.Balloon.Palette)
	}
	return nil
}

// Quantizer returns the color quantizer described by c.
func (c Config) Quantizer() rgb332.Quantizer {
	return rgb332.Quantizer{
		Transparent: c.Transparent,
		Alternative: c.Alternative,
	}
}

// Encoder returns a sprite encoder using the quantizer and reference point.
func (c Config) Encoder() (*sprite.Encoder, error) {
	p, err := sprite.ParsePoint(c.Reference)
	if err != nil {
		return nil, err
	}
	return &sprite.Encoder{
		Quantizer: c.Quantizer(),
		Reference: p,
	}, nil
}
