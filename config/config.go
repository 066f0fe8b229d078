// Package config holds the configuration of the eml command, in sconf
// format.
package config

import (
	"fmt"
	"os"

	"github.com/mjl-/sconf"
)

// Config is the optional eml.conf. All fields have usable defaults, the
// file only overrides them.
type Config struct {
	LogLevel     string `sconf:"optional" sconf-doc:"Log level for diagnostics about parse recoveries: error, warn, info, debug. Default: error."`
	MaxMIMEDepth int    `sconf:"optional" sconf-doc:"Maximum nesting of multipart and message/rfc822 parts. Parts nested deeper are kept as opaque leaves. Default: 20."`
}

// Defaults returns the configuration used without a config file.
func Defaults() Config {
	return Config{
		LogLevel:     "error",
		MaxMIMEDepth: 20,
	}
}

// Load reads path into a Config, applying defaults for absent fields. A
// missing file is not an error, the defaults are returned.
func Load(path string) (Config, error) {
	c := Defaults()
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) {
		return c, nil
	}
	if err := sconf.ParseFile(path, &c); err != nil {
		return c, fmt.Errorf("parsing config file %s: %v", path, err)
	}
	if c.LogLevel == "" {
		c.LogLevel = "error"
	}
	if c.MaxMIMEDepth == 0 {
		c.MaxMIMEDepth = 20
	}
	return c, nil
}

// Describe writes an annotated example config file.
func Describe(f *os.File) error {
	c := Defaults()
	return sconf.Describe(f, &c)
}
