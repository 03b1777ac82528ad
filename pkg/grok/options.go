package grok

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/grokline/grokline-go/internal/engine"
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Engine selects the regular expression engine a Pattern runs on.
type Engine = engine.Kind

const (
	// EngineStdlib is the standard library regexp package (default).
	EngineStdlib = engine.Stdlib
	// EngineCoregex is github.com/coregx/coregex.
	EngineCoregex = engine.Coregex
	// EngineRE2 is RE2 through github.com/wasilibs/go-re2.
	EngineRE2 = engine.RE2
)

// Engines returns the names accepted by ParseEngine.
func Engines() []string {
	return engine.Kinds()
}

// ParseEngine returns the engine called name ("regexp", "coregex", "re2").
func ParseEngine(name string) (Engine, error) {
	return engine.ParseKind(name)
}

// ConversionPolicy decides what happens when a typed capture does not parse.
type ConversionPolicy int

const (
	// ConvertStrict fails Capture with a *TypeConversionError (default).
	ConvertStrict ConversionPolicy = iota
	// ConvertKeepRaw keeps the raw string for the failing field.
	ConvertKeepRaw
	// ConvertDrop omits the failing field.
	ConvertDrop
)

var policyNames = [...]string{
	ConvertStrict:  "strict",
	ConvertKeepRaw: "raw",
	ConvertDrop:    "drop",
}

func (p ConversionPolicy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("ConversionPolicy(%d)", int(p))
	}
	return policyNames[p]
}

// ParseConversionPolicy returns the policy called name ("strict", "raw",
// "drop").
func ParseConversionPolicy(name string) (ConversionPolicy, error) {
	for p, n := range policyNames {
		if n == name {
			return ConversionPolicy(p), nil
		}
	}
	return 0, fmt.Errorf("unknown conversion policy %q (supported: strict, raw, drop)", name)
}

// CompileOption configures Compile using the functional options pattern.
type CompileOption func(*compileConfig)

type compileConfig struct {
	engine Engine
	policy ConversionPolicy
	logger *slog.Logger
}

func defaultCompileConfig() *compileConfig {
	return &compileConfig{
		engine: EngineStdlib,
		policy: ConvertStrict,
	}
}

func applyCompileOptions(opts []CompileOption) *compileConfig {
	cfg := defaultCompileConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *compileConfig) validate() error {
	if c.engine < 0 || int(c.engine) >= len(engine.Kinds()) {
		return fmt.Errorf("unknown engine %v", c.engine)
	}
	if c.policy < 0 || int(c.policy) >= len(policyNames) {
		return fmt.Errorf("unknown conversion policy %v", c.policy)
	}
	return nil
}

// WithEngine selects the regex engine. Default: EngineStdlib.
func WithEngine(e Engine) CompileOption {
	return func(c *compileConfig) {
		c.engine = e
	}
}

// WithConversionPolicy sets how typed fields that fail to parse are handled.
// Default: ConvertStrict.
func WithConversionPolicy(p ConversionPolicy) CompileOption {
	return func(c *compileConfig) {
		c.policy = p
	}
}

// WithLogger sets a logger for compile diagnostics.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) CompileOption {
	return func(c *compileConfig) {
		c.logger = logger
	}
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	logger *slog.Logger
}

func applyStoreOptions(opts []StoreOption) *storeConfig {
	cfg := &storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}

// WithStoreLogger sets a logger for registration events. Patterns compiled
// from the store inherit it unless WithLogger overrides it.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}
