package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads the configuration file at path. A missing file is not an
// error: the compiled-in defaults apply. Fields absent from the file keep
// their default values.
func Load(fsys afero.Fs, path string) (*Config, error) {
	contents, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
