package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
	"github.com/huyhoangtran00/portfolio/internal/storage"
	"github.com/sirupsen/logrus"
)

// ContactRequest is a visitor's message to a portfolio owner.
type ContactRequest struct {
	SenderEmail string `json:"sender_email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// ImageUpload is the result of a successful profile image upload.
type ImageUpload struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

type ProfileService struct {
	accountRepo repositories.AccountRepository
	projectRepo repositories.ProjectRepository
	blobs       storage.BlobStore
	logger      logrus.FieldLogger
}

func NewProfileService(
	accountRepo repositories.AccountRepository,
	projectRepo repositories.ProjectRepository,
	blobs storage.BlobStore,
	logger logrus.FieldLogger,
) *ProfileService {
	return &ProfileService{
		accountRepo: accountRepo,
		projectRepo: projectRepo,
		blobs:       blobs,
		logger:      logger.WithField("component", "profile"),
	}
}

// Get returns the account's own profile with its projects.
func (s *ProfileService) Get(ctx context.Context, account *models.Account) (*models.AccountView, error) {
	return s.view(ctx, account)
}

// Update applies the fields present in update to the profile.
func (s *ProfileService) Update(ctx context.Context, accountID uuid.UUID, update models.ProfileUpdate) (*models.AccountView, error) {
	account, err := s.accountRepo.UpdateProfile(ctx, accountID, update)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound(msgProfileAfterUpdate)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to update profile: %w", err))
	}

	return s.view(ctx, account)
}

// UploadImage stores a new profile image and points the profile at it. The
// previous image, if any, is removed afterwards on a best-effort basis.
func (s *ProfileService) UploadImage(ctx context.Context, account *models.Account, filename, contentType string, r io.Reader) (*ImageUpload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, BadRequest(msgImagesOnly)
	}

	name := storage.NewBlobName(filename)
	if err := s.blobs.Save(ctx, name, contentType, r); err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to save image: %w", err))
	}
	imageURL := s.blobs.URL(name)

	previous := account.ProfileImageURL

	updated, err := s.accountRepo.UpdateProfileImage(ctx, account.ID, &imageURL)
	if errors.Is(err, repositories.ErrNotFound) {
		s.removeBlob(ctx, name)
		return nil, NotFound(msgUserNotFound)
	}
	if err != nil {
		s.removeBlob(ctx, name)
		return nil, Internal(msgInternal, fmt.Errorf("failed to update profile image: %w", err))
	}

	if previous != nil && *previous != "" {
		s.removeBlob(ctx, storage.NameFromURL(*previous))
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": updated.ID,
		"file":       name,
	}).Info("profile image uploaded")

	return &ImageUpload{Message: msgImageUploaded, ImageURL: imageURL}, nil
}

// DeleteImage removes the profile image. A file already missing from the
// store still clears the profile URL.
func (s *ProfileService) DeleteImage(ctx context.Context, account *models.Account) error {
	if account.ProfileImageURL == nil || *account.ProfileImageURL == "" {
		return NotFound(msgNoImage)
	}

	name := storage.NameFromURL(*account.ProfileImageURL)
	err := s.blobs.Delete(ctx, name)
	if errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.WithField("file", name).Info("profile image not found in store, clearing url")
	} else if err != nil {
		return Internal(msgInternal, fmt.Errorf("failed to delete image: %w", err))
	}

	_, err = s.accountRepo.UpdateProfileImage(ctx, account.ID, nil)
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal(msgInternal, fmt.Errorf("failed to clear profile image: %w", err))
	}
	return nil
}

// Portfolio is the public, unauthenticated view of an account.
func (s *ProfileService) Portfolio(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound(msgPortfolioNotFound)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}

	return s.view(ctx, account)
}

// Contact records a visitor message for the account owner. Nothing is sent.
func (s *ProfileService) Contact(ctx context.Context, accountID uuid.UUID, req ContactRequest) (string, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", NotFound(msgContactNotFound)
	}
	if err != nil {
		return "", Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}

	if account.Email == "" {
		return "", BadRequest(msgContactNoEmail)
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"to":         account.Email,
		"from":       req.SenderEmail,
		"subject":    req.Subject,
		"message":    req.Message,
	}).Info("simulating contact email")

	return msgContactSimulated, nil
}

func (s *ProfileService) view(ctx context.Context, account *models.Account) (*models.AccountView, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, account.ID)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to list projects: %w", err))
	}
	return models.NewAccountView(account, projects), nil
}

func (s *ProfileService) removeBlob(ctx context.Context, name string) {
	err := s.blobs.Delete(ctx, name)
	if err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logger.WithError(err).WithField("file", name).Warn("failed to delete profile image")
	}
}
