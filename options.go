package webenv

import (
	"github.com/iaalcantara17/webenv/fetchmock"
	"github.com/iaalcantara17/webenv/internal/config"
	"github.com/iaalcantara17/webenv/internal/logging"
	"github.com/iaalcantara17/webenv/mock"
	"github.com/iaalcantara17/webenv/storage"
)

// Option configures an environment at creation time.
type Option func(*options)

type options struct {
	cfg        *config.Config
	logger     *logging.Logger
	local      *storage.Store
	fetch      *fetchmock.Stub
	registry   *mock.Registry
	blobReader BlobReader
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.LoadOrDefault()
	}
	if o.logger == nil {
		o.logger = logging.NewDefault()
	}
	if o.local == nil {
		o.local = storage.Default()
	}
	if o.registry == nil {
		o.registry = mock.NewRegistry()
	}
	if o.blobReader == nil {
		o.blobReader = defaultBlobReader
	}
	return o
}

// WithConfig overrides the environment configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger overrides the environment logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStorage backs localStorage with the given store instead of the
// process-wide one, isolating this environment's persisted state.
func WithStorage(st *storage.Store) Option {
	return func(o *options) { o.local = st }
}

// WithFetch substitutes the network-fetch stand-in, for example one
// created with fetchmock.NewPassthrough pointed at a fixture server.
func WithFetch(stub *fetchmock.Stub) Option {
	return func(o *options) { o.fetch = stub }
}

// WithRegistry uses an existing stand-in registry instead of a fresh
// per-environment one.
func WithRegistry(r *mock.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithBlobReader substitutes the file-reading capability behind
// Blob.text, the hook for injecting read errors.
func WithBlobReader(fn BlobReader) Option {
	return func(o *options) { o.blobReader = fn }
}
