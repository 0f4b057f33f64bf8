package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GLOBENAV_"

// Load builds a Config from defaults, the file at path and the process
// environment, then validates it. An empty path or a missing file leaves
// the defaults in place.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment in os.Environ form.
func LoadWithEnv(path string, environ []string) (*Config, error) {
	c := Default()
	if path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := NewEnvLoader(EnvPrefix).Apply(c, environ); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// loadFile decodes path over c. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := c.decode(path, bytes.NewReader(data)); err != nil {
		return err
	}
	c.Path = path
	c.resolvePaths()
	return nil
}

// Decode reads a config in the format named by the extension of name over
// the defaults, without environment overrides or validation.
func Decode(name string, r io.Reader) (*Config, error) {
	c := Default()
	if err := c.decode(name, r); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(source string, r io.Reader) error {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".toml":
		dec := toml.NewDecoder(r).DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return tomlError(source, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return yamlError(source, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, source)
	}
	return nil
}

// tomlError converts go-toml errors into a ParseError with a position.
func tomlError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	var strictErr *toml.StrictMissingError
	switch {
	case errors.As(err, &decErr):
		pe.Line, pe.Column = decErr.Position()
	case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
		pe.Line, pe.Column = strictErr.Errors[0].Position()
		pe.Message = "unknown field " + strings.Join(strictErr.Errors[0].Key(), ".")
	}
	return pe
}

// yamlError converts yaml.v3 errors into a ParseError. yaml.v3 reports
// positions only inside the message, as "yaml: line N: ...".
func yamlError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		pe.Message = typeErr.Errors[0]
	}
	if rest, ok := strings.CutPrefix(pe.Message, "yaml: "); ok {
		pe.Message = rest
	}
	if rest, ok := strings.CutPrefix(pe.Message, "line "); ok {
		num, msg, found := strings.Cut(rest, ": ")
		if n, convErr := strconv.Atoi(num); found && convErr == nil {
			pe.Line = n
			pe.Message = msg
		}
	}
	return pe
}
