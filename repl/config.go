package repl

import (
	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// configSection is the TOML table name the REPL reads its configuration
// from, e.g.:
//
//	[StreamQL]
//	main_src = "examples/append.ql"
const configSection = "StreamQL"

// Config holds the REPL's own settings, loaded from a TOML file.
type Config struct {
	StreamQL struct {
		// MainSrc is the source file the "run" command executes.
		MainSrc string `toml:"main_src"`
	} `toml:"StreamQL"`
}

// LoadConfig reads and validates a Config from path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate collects every independently-invalid field into a single error
// rather than reporting just the first one found.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.StreamQL.MainSrc == "" {
		result = multierror.Append(result, errors.Errorf("[%s] main_src must be set", configSection))
	}
	return result.ErrorOrNil()
}
