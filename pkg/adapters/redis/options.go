package redis

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	backend "github.com/redis/go-redis/v9"
)

// Options is the backend connection configuration accepted from a free-form
// "store" map. Unknown keys are ignored.
type Options struct {
	// URL, when set, takes precedence over Addr/Username/Password/DB.
	URL string `json:"url" mapstructure:"url"`

	Addr     string `json:"addr" mapstructure:"addr"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`

	// Prefix namespaces every key written by the backend.
	Prefix string `json:"prefix" mapstructure:"prefix"`

	// Timeouts accept Go duration strings ("500ms", "2s").
	DialTimeout  time.Duration `json:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
}

// DecodeOptions converts a loosely typed map (from YAML, JSON or code) into Options.
// A nil map yields zero Options, which connect to localhost:6379.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return Options{}, fmt.Errorf("failed to build store options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("invalid store options: %w", err)
	}
	return opts, nil
}

// Open creates a Backend from Options.
func Open(opts Options) (*Backend, error) {
	var clientOpts *backend.Options
	if opts.URL != "" {
		parsed, err := backend.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		clientOpts = parsed
	} else {
		clientOpts = &backend.Options{
			Addr:     opts.Addr,
			Username: opts.Username,
			Password: opts.Password,
			DB:       opts.DB,
		}
	}

	if opts.DialTimeout > 0 {
		clientOpts.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		clientOpts.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		clientOpts.WriteTimeout = opts.WriteTimeout
	}

	return NewFromClient(backend.NewClient(clientOpts), WithPrefix(opts.Prefix)), nil
}
