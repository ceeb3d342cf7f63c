package profile

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"campusmarket/internal/api"
	"campusmarket/internal/core/models"
	"campusmarket/pkg/apperror"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/notice"
)

// ProfileAPI is the slice of the REST client the store needs.
type ProfileAPI interface {
	Get(ctx context.Context) (models.ProfileRecord, error)
	Put(ctx context.Context, record models.ProfileRecord, imageFilename string, image io.Reader) (models.ProfileRecord, error)
}

// Store fetches and edits the signed-in user's profile: one fetch per
// session, edits staged in a local copy, persisted wholesale on save.
type Store struct {
	mu      sync.Mutex
	client  ProfileAPI
	tokens  api.TokenSource
	notices *notice.Center
	log     logger.Logger

	generation int
	loaded     bool
	record     models.ProfileRecord
	staged     models.ProfileRecord
}

func NewStore(client ProfileAPI, tokens api.TokenSource, notices *notice.Center, writer io.Writer) *Store {
	return &Store{
		client:  client,
		tokens:  tokens,
		notices: notices,
		log:     logger.NewLogger(writer, "[profile]"),
	}
}

// Load fetches the profile once per session. Without a stored credential it
// fails with AuthError before any network call. A load whose owner has been
// torn down (context cancelled or Reset called) never writes state.
func (s *Store) Load(ctx context.Context) (models.ProfileRecord, error) {
	if s.tokens != nil {
		if _, err := s.tokens.Token(); err != nil {
			var ae *apperror.AuthError
			if errors.As(err, &ae) {
				return models.ProfileRecord{}, err
			}
			return models.ProfileRecord{}, &apperror.AuthError{Reason: err.Error()}
		}
	}

	s.mu.Lock()
	if s.loaded {
		record := s.record
		s.mu.Unlock()
		return record, nil
	}
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	record, err := s.client.Get(ctx)
	if err != nil {
		return models.ProfileRecord{}, err
	}

	record.Role = models.Role(strings.ToLower(string(record.Role)))
	if record.Role != models.RoleStudent {
		record.Year = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// поздний ответ после teardown не применяем
		return models.ProfileRecord{}, context.Canceled
	}
	s.loaded = true
	s.record = record
	s.staged = record
	return record, nil
}

// Reset detaches any in-flight load; its late response will be discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.loaded = false
	s.record = models.ProfileRecord{}
	s.staged = models.ProfileRecord{}
}

// Staged returns the editable local copy.
func (s *Store) Staged() models.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// Stage replaces the editable copy without touching the saved record.
func (s *Store) Stage(record models.ProfileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = record
}

// Save validates and persists the staged record, with an optional new image,
// as one multipart submission. Role is normalized to the lowercase
// enumeration and year is dropped unless the role is student.
func (s *Store) Save(ctx context.Context, imageFilename string, image io.Reader) (models.ProfileRecord, error) {
	s.mu.Lock()
	record := s.staged
	s.mu.Unlock()

	normalized, err := normalize(record)
	if err != nil {
		return models.ProfileRecord{}, err
	}

	saved, err := s.client.Put(ctx, normalized, imageFilename, image)
	if err != nil {
		s.log.Log("save rejected: %v", err)
		return models.ProfileRecord{}, asSubmissionError(err)
	}

	s.mu.Lock()
	s.loaded = true
	s.record = saved
	s.staged = saved
	s.mu.Unlock()

	if s.notices != nil {
		s.notices.Flash(notice.KindSuccess, "Profile updated successfully!")
	}
	return saved, nil
}

// Record returns the last server-acknowledged profile.
func (s *Store) Record() models.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func normalize(record models.ProfileRecord) (models.ProfileRecord, error) {
	if strings.TrimSpace(record.Name) == "" {
		return models.ProfileRecord{}, &apperror.ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(record.Email) == "" {
		return models.ProfileRecord{}, &apperror.ValidationError{Field: "email", Reason: "required"}
	}

	record.Role = models.Role(strings.ToLower(string(record.Role)))
	switch record.Role {
	case models.RoleStudent:
		if record.Year == "" {
			return models.ProfileRecord{}, &apperror.ValidationError{Field: "year", Reason: "required for students"}
		}
	case models.RoleFaculty:
		record.Year = ""
	default:
		return models.ProfileRecord{}, &apperror.ValidationError{Field: "role", Reason: "must be student or faculty"}
	}
	return record, nil
}

var titleCaser = cases.Title(language.English)

// DisplayRole title-cases the role for presentation only; storage stays
// lowercase.
func DisplayRole(role models.Role) string {
	return titleCaser.String(string(role))
}

func asSubmissionError(err error) error {
	var fe *apperror.FetchError
	if errors.As(err, &fe) {
		return &apperror.SubmissionError{Message: fe.Message, Err: err}
	}
	return &apperror.SubmissionError{Err: err}
}
