package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync"

	"campusmarket/internal/api"
	"campusmarket/internal/core/models"
	"campusmarket/metrics"
	"campusmarket/pkg/apperror"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/notice"
)

// ProductCreator is the slice of the products API the store submits through.
type ProductCreator interface {
	Create(ctx context.Context, draft models.SellDraft, sellerID string) (models.Product, error)
}

// ImageUploader exchanges a local file for a served URL before submission.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, file io.Reader) (string, error)
}

// Store tracks the seller's own listings through their lifecycle for the
// Sell and Status sections. It is not polled: the only writers are Submit
// and the purchase flow's sold-transition.
type Store struct {
	mu       sync.Mutex
	products ProductCreator
	uploads  ImageUploader
	notices  *notice.Center
	log      logger.Logger

	listings []models.Product
	draft    models.SellDraft
}

func NewStore(products ProductCreator, uploads ImageUploader, notices *notice.Center, writer io.Writer) *Store {
	return &Store{
		products: products,
		uploads:  uploads,
		notices:  notices,
		log:      logger.NewLogger(writer, "[listing]"),
	}
}

// Draft returns the staged form state, preserved across failed submissions.
func (s *Store) Draft() models.SellDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit validates the draft locally, exchanges a file image for a URL when
// needed, and posts the listing. Validation failures never touch the
// network. On backend rejection the draft is preserved so the user can
// correct and resubmit; on success it is reset and the created product is
// appended with status forced to Available, whatever the backend said.
func (s *Store) Submit(ctx context.Context, draft models.SellDraft, sellerID string) (models.Product, error) {
	s.mu.Lock()
	s.draft = draft
	s.mu.Unlock()

	if err := validateDraft(draft); err != nil {
		return models.Product{}, err
	}

	if draft.ImageSource == models.ImageFile {
		uploadedURL, err := s.uploadImage(ctx, draft.ImagePath)
		if err != nil {
			metrics.RecordSubmission("failure")
			return models.Product{}, err
		}
		draft.ImageSource = models.ImageURL
		draft.ImageURL = uploadedURL
		draft.ImagePath = ""
	}

	created, err := s.products.Create(ctx, draft, sellerID)
	if err != nil {
		metrics.RecordSubmission("failure")
		s.log.Log("submit rejected: %v", err)
		return models.Product{}, asSubmissionError(err)
	}

	created.Status = models.StatusAvailable

	s.mu.Lock()
	s.listings = append(s.listings, created)
	s.draft = models.SellDraft{}
	s.mu.Unlock()

	metrics.RecordSubmission("success")
	if s.notices != nil {
		s.notices.Flash(notice.KindSuccess, fmt.Sprintf("Listed %s for sale", created.Name))
	}
	return created, nil
}

// List returns the tracked listings with their current status, in order.
func (s *Store) List() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.listings))
	copy(out, s.listings)
	return out
}

// Replace swaps in a fresh server-fetched view of the seller's listings.
func (s *Store) Replace(listings []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = make([]models.Product, len(listings))
	copy(s.listings, listings)
}

// ApplySold folds a confirmed purchase into the tracked listings by id.
// Only the matching product's status changes.
func (s *Store) ApplySold(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = Reconcile(s.listings, productID, MarkSold)
}

func (s *Store) uploadImage(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()
	return s.uploads.UploadImage(ctx, path, file)
}

func validateDraft(draft models.SellDraft) error {
	if draft.ProductName == "" {
		return &apperror.ValidationError{Field: "productName", Reason: "required"}
	}
	if draft.Price <= 0 {
		return &apperror.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}

	switch draft.ImageSource {
	case models.ImageURL:
		parsed, err := url.Parse(draft.ImageURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return &apperror.ValidationError{Field: "image", Reason: "not a well-formed URL"}
		}
		if !api.IsImageFilename(parsed.Path) {
			return &apperror.ValidationError{Field: "image", Reason: "URL does not point at an image"}
		}
	case models.ImageFile:
		if !api.IsImageFilename(draft.ImagePath) {
			return &apperror.ValidationError{Field: "image", Reason: "not an image file"}
		}
	}
	return nil
}

// asSubmissionError rewraps a backend rejection so the caller sees the
// backend's message verbatim when there is one. Client-side taxonomy errors
// pass through untouched.
func asSubmissionError(err error) error {
	var fe *apperror.FetchError
	if errors.As(err, &fe) {
		return &apperror.SubmissionError{Message: fe.Message, Err: err}
	}
	if apperror.IsValidation(err) || apperror.IsAuth(err) {
		return err
	}
	return &apperror.SubmissionError{Err: err}
}
