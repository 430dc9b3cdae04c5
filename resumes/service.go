package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/cvpress/resume"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 50
)

type Service struct {
	Repo Repo
	// Now 与 NewID 可在测试中替换
	Now   func() time.Time
	NewID func() string
}

func NewService(repo Repo) *Service {
	return &Service{
		Repo:  repo,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: func() string { return uuid.NewString() },
	}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("resumes service not configured")
	}
	return nil
}

// Create stores rec under a fresh id.
func (s *Service) Create(ctx context.Context, rec resume.Record) (Document, error) {
	if err := s.ready(); err != nil {
		return Document{}, err
	}
	now := s.Now()
	doc := Document{ID: s.NewID(), CreatedAt: now, UpdatedAt: now, Record: rec.Normalize()}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("create resume: %w", err)
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if err := s.ready(); err != nil {
		return Document{}, err
	}
	if err := validateID(id); err != nil {
		return Document{}, err
	}
	return s.Repo.Get(ctx, id)
}

// Update replaces the record of an existing document, keeping its creation time.
func (s *Service) Update(ctx context.Context, id string, rec resume.Record) (Document, error) {
	if err := s.ready(); err != nil {
		return Document{}, err
	}
	if err := validateID(id); err != nil {
		return Document{}, err
	}
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc := Document{ID: id, CreatedAt: existing.CreatedAt, UpdatedAt: s.Now(), Record: rec.Normalize()}
	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// List clamps limit to [1, MaxListLimit]; zero selects DefaultListLimit.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.Repo.List(ctx, limit, offset)
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: id %q is not a uuid", ErrInvalidInput, id)
	}
	return nil
}
