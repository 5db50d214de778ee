package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
	"github.com/sirupsen/logrus"
)

type ProjectService struct {
	projectRepo repositories.ProjectRepository
	logger      logrus.FieldLogger
}

func NewProjectService(projectRepo repositories.ProjectRepository, logger logrus.FieldLogger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger.WithField("component", "project"),
	}
}

func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, input models.ProjectInput) (*models.Project, error) {
	if err := validateProject(input); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          input.Name,
		DemoURL:       input.DemoURL.Value,
		RepositoryURL: input.RepositoryURL.Value,
		Description:   input.Description.Value,
		OwnerID:       ownerID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, Internal("Failed to add project", fmt.Errorf("failed to create project: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": ownerID,
		"project_id": project.ID,
	}).Info("project created")

	return project, nil
}

// Update renames a project owned by ownerID and sets the optional fields present in input.
func (s *ProjectService) Update(ctx context.Context, ownerID, projectID uuid.UUID, input models.ProjectInput) (*models.Project, error) {
	if err := validateProject(input); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.Update(ctx, projectID, ownerID, input)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFound(msgProjectNotFound)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to update project: %w", err))
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	err := s.projectRepo.Delete(ctx, projectID, ownerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFound(msgProjectNotFound)
	}
	if err != nil {
		return Internal(msgInternal, fmt.Errorf("failed to delete project: %w", err))
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": ownerID,
		"project_id": projectID,
	}).Info("project deleted")

	return nil
}

// ListMine returns the owner's projects, empty rather than nil when there are none.
func (s *ProjectService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to list projects: %w", err))
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

func validateProject(input models.ProjectInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return BadRequest("name is required")
	}
	return nil
}
