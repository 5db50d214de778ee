package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DemoURL       *string   `json:"demo_url"`
	RepositoryURL *string   `json:"repository_url"`
	Description   *string   `json:"description"`
	OwnerID       uuid.UUID `json:"owner_id"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// ProjectInput is the create/update payload for a project. Name is always
// required; on update the optional fields keep their stored value when absent.
type ProjectInput struct {
	Name          string        `json:"name"`
	DemoURL       Field[string] `json:"demo_url,omitzero"`
	RepositoryURL Field[string] `json:"repository_url,omitzero"`
	Description   Field[string] `json:"description,omitzero"`
}
