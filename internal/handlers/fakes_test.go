package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
)

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
}

func (r *memAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return repositories.ErrEmailExists
		}
	}
	account.ID = uuid.New()
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memAccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.Account, error) {
	return r.mutate(id, func(a *models.Account) {
		a.Name = update.Name.Apply(a.Name)
		a.JobTitle = update.JobTitle.Apply(a.JobTitle)
		a.Bio = update.Bio.Apply(a.Bio)
	})
}

func (r *memAccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.mutate(id, func(a *models.Account) { a.PasswordHash = passwordHash })
	return err
}

func (r *memAccountRepo) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL *string) (*models.Account, error) {
	return r.mutate(id, func(a *models.Account) { a.ProfileImageURL = imageURL })
}

func (r *memAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) mutate(id uuid.UUID, fn func(*models.Account)) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(&a)
	r.accounts[id] = a
	return &a, nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects []models.Project
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.New()
	r.projects = append(r.projects, *project)
	return nil
}

func (r *memProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := []*models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			copied := p
			projects = append(projects, &copied)
		}
	}
	return projects, nil
}

func (r *memProjectRepo) Update(ctx context.Context, id, ownerID uuid.UUID, input models.ProjectInput) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.projects {
		if p.ID == id && p.OwnerID == ownerID {
			r.projects[i].Name = input.Name
			r.projects[i].DemoURL = input.DemoURL.Apply(p.DemoURL)
			r.projects[i].RepositoryURL = input.RepositoryURL.Apply(p.RepositoryURL)
			r.projects[i].Description = input.Description.Apply(p.Description)
			updated := r.projects[i]
			return &updated, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memProjectRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.projects {
		if p.ID == id && p.OwnerID == ownerID {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type capturingMailer struct {
	mu     sync.Mutex
	bodies []string
}

func (m *capturingMailer) Send(ctx context.Context, to, subject, htmlBody string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, htmlBody)
	return true
}

func (m *capturingMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return ""
	}
	return m.bodies[len(m.bodies)-1]
}
