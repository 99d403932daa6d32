package smooth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/brimdata/geovec/arrowio"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Iterations  uint32              `yaml:"iterations"`
	Workers     int                 `yaml:"workers"`
	Compression arrowio.Compression `yaml:"compression"`
}

func DefaultConfig() Config {
	return Config{
		Iterations: 1,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// LoadConfig overlays the YAML file at path onto conf.
func LoadConfig(path string, conf *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
