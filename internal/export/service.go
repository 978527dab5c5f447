// Package export turns export requests into stored Xcode project archives.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonathan/swiftblocks/internal/store"
	"github.com/jonathan/swiftblocks/internal/transpile"
	"github.com/jonathan/swiftblocks/internal/types"
	"github.com/jonathan/swiftblocks/internal/xcodeproj"
)

// DefaultCacheSize is the number of translations kept by default.
const DefaultCacheSize = 256

// ErrEmptyBody is returned when there is no Swift source to export.
var ErrEmptyBody = errors.New("nothing to export: the Swift body is empty")

// ValidationError reports an export request that failed validation.
type ValidationError struct {
	Fields []string
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid export request: %v", e.Cause)
	}
	return "invalid export request: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Service validates, translates, materializes and stores exports.
type Service struct {
	store       store.Store
	pipeline    transpile.Pipeline
	cache       *lru.Cache[string, string]
	now         func() time.Time
	newID       func() string
	projectOpts []xcodeproj.Option
}

type settings struct {
	cacheSize   int
	pipeline    transpile.Pipeline
	now         func() time.Time
	newID       func() string
	projectOpts []xcodeproj.Option
}

// Option customizes a Service.
type Option func(*settings)

// WithCacheSize sets how many translations are remembered.
func WithCacheSize(n int) Option {
	return func(s *settings) { s.cacheSize = n }
}

// WithPipeline replaces the default translation table.
func WithPipeline(p transpile.Pipeline) Option {
	return func(s *settings) { s.pipeline = p }
}

// WithClock sets the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithIDGenerator sets the source of export IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) { s.newID = newID }
}

// WithProjectOptions applies options to every materialized project.
// Request fields take precedence over them.
func WithProjectOptions(opts ...xcodeproj.Option) Option {
	return func(s *settings) { s.projectOpts = append(s.projectOpts, opts...) }
}

// NewService creates a Service storing archives in st.
func NewService(st store.Store, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	s := settings{
		cacheSize: DefaultCacheSize,
		pipeline:  transpile.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}

	cache, err := lru.New[string, string](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation cache: %w", err)
	}

	return &Service{
		store:       st,
		pipeline:    s.pipeline,
		cache:       cache,
		now:         s.now,
		newID:       s.newID,
		projectOpts: s.projectOpts,
	}, nil
}

// Translate converts JavaScript source, reusing earlier results for
// identical input.
func (s *Service) Translate(source string) string {
	sum := sha256.Sum256([]byte(source))
	key := hex.EncodeToString(sum[:])
	if out, ok := s.cache.Get(key); ok {
		return out
	}
	out := s.pipeline.Translate(source)
	s.cache.Add(key, out)
	return out
}

// Export validates req, builds the project and stores its archive.
func (s *Service) Export(ctx context.Context, req types.ExportRequest) (*store.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Fields: types.FieldErrors(err), Cause: err}
	}

	body := req.Body()
	if req.IsJavaScript() {
		body = s.Translate(body)
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	opts := make([]xcodeproj.Option, 0, len(s.projectOpts)+2)
	opts = append(opts, s.projectOpts...)
	opts = append(opts, xcodeproj.WithUser(req.User), xcodeproj.WithBundlePrefix(req.BundlePrefix))

	project, err := xcodeproj.Build(req.ProjectName, body, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build project %s: %w", req.ProjectName, err)
	}
	archive, err := project.Archive()
	if err != nil {
		return nil, fmt.Errorf("failed to archive project %s: %w", req.ProjectName, err)
	}

	sum := sha256.Sum256(archive)
	rec := &store.Record{
		ID:          s.newID(),
		ProjectName: req.ProjectName,
		FileName:    req.ProjectName + ".zip",
		Size:        int64(len(archive)),
		SHA256:      hex.EncodeToString(sum[:]),
		Entries:     len(project.Files),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Save(ctx, rec, archive); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}
	return rec, nil
}

// Get returns the record of a stored export.
func (s *Service) Get(ctx context.Context, id string) (*store.Record, error) {
	return s.store.Get(ctx, id)
}

// List returns the most recent exports.
func (s *Service) List(ctx context.Context, limit int) ([]store.Record, error) {
	return s.store.List(ctx, limit)
}

// Archive returns the zip of a stored export.
func (s *Service) Archive(ctx context.Context, id string) ([]byte, error) {
	return s.store.Archive(ctx, id)
}
