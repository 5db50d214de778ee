package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Name            *string   `json:"name"`
	JobTitle        *string   `json:"job_title"`
	Bio             *string   `json:"bio"`
	ProfileImageURL *string   `json:"profile_image_url"`
	EmailVerified   bool      `json:"email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccountView is the response shape for profile and portfolio reads.
type AccountView struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            *string    `json:"name"`
	JobTitle        *string    `json:"job_title"`
	Bio             *string    `json:"bio"`
	ProfileImageURL *string    `json:"profile_image_url"`
	EmailVerified   bool       `json:"email_verified"`
	Projects        []*Project `json:"projects"`
}

// ProfileUpdate holds the editable profile fields. Absent keys are left
// unchanged and an explicit null clears the field. The profile image is only
// changed through the upload and delete operations.
type ProfileUpdate struct {
	Name     Field[string] `json:"name,omitzero"`
	JobTitle Field[string] `json:"job_title,omitzero"`
	Bio      Field[string] `json:"bio,omitzero"`
}

func NewAccountView(account *Account, projects []*Project) *AccountView {
	if projects == nil {
		projects = []*Project{}
	}
	return &AccountView{
		ID:              account.ID,
		Email:           account.Email,
		Name:            account.Name,
		JobTitle:        account.JobTitle,
		Bio:             account.Bio,
		ProfileImageURL: account.ProfileImageURL,
		EmailVerified:   account.EmailVerified,
		Projects:        projects,
	}
}
