package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
	"github.com/huyhoangtran00/portfolio/internal/storage"
)

type memAccountRepo struct {
	mu                sync.Mutex
	accounts          map[uuid.UUID]*models.Account
	err               error
	updatePasswordErr error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[uuid.UUID]*models.Account{}}
}

func (r *memAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return repositories.ErrEmailExists
		}
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memAccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a.Name = update.Name.Apply(a.Name)
	a.JobTitle = update.JobTitle.Apply(a.JobTitle)
	a.Bio = update.Bio.Apply(a.Bio)
	copied := *a
	return &copied, nil
}

func (r *memAccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updatePasswordErr != nil {
		return r.updatePasswordErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *memAccountRepo) UpdateProfileImage(ctx context.Context, id uuid.UUID, imageURL *string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a.ProfileImageURL = imageURL
	copied := *a
	return &copied, nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) passwordHash(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id].PasswordHash
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	seq      int
	order    map[uuid.UUID]int
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{
		projects: map[uuid.UUID]*models.Project{},
		order:    map[uuid.UUID]int{},
	}
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.New()
	stored := *project
	r.projects[project.ID] = &stored
	r.seq++
	r.order[project.ID] = r.seq
	return nil
}

func (r *memProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	projects := []*models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			copied := *p
			projects = append(projects, &copied)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return r.order[projects[i].ID] < r.order[projects[j].ID]
	})
	return projects, nil
}

func (r *memProjectRepo) Update(ctx context.Context, id, ownerID uuid.UUID, input models.ProjectInput) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repositories.ErrNotFound
	}
	p.Name = input.Name
	p.DemoURL = input.DemoURL.Apply(p.DemoURL)
	p.RepositoryURL = input.RepositoryURL.Apply(p.RepositoryURL)
	p.Description = input.Description.Apply(p.Description)
	copied := *p
	return &copied, nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	ok   bool
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return m.ok
}

func (m *recordingMailer) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type memBlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	deleteErr error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = buf.Bytes()
	return nil
}

func (s *memBlobStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.blobs[name]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(s.blobs, name)
	return nil
}

func (s *memBlobStore) URL(name string) string {
	return "http://localhost:8000/static/" + name
}

func (s *memBlobStore) has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[name]
	return ok
}

func (s *memBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

var errStoreDown = errors.New("store unavailable")
