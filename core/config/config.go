// Package config holds the interpreter's startup configuration: prompt
// template, history depth, and extra environment variables.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigName is the file looked up under the user's home directory.
const ConfigName = ".rushrc.yaml"

type Config struct {
	// Prompt is a template expanded before every read: \u user, \h host,
	// \w working directory, \$ the prompt character.
	Prompt string `json:"prompt" validate:"required"`

	// HistorySize caps the number of retained history entries.
	HistorySize int `json:"history_size" validate:"gte=1"`

	// Color enables ANSI coloring of the prompt.
	Color bool `json:"color"`

	// Environment is exported into the interpreter's environment at startup,
	// overriding inherited values.
	Environment map[string]string `json:"environment"`
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func defaultConfig() *Config {
	var out Config
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
