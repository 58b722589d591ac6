package project

import (
	"fmt"
	"time"

	"gitcollab/internal/domain/user"
)

// Project is a GitHub repository advertised as looking for contributors.
type Project struct {
	id            ProjectID
	ownerID       user.UserID
	repositoryURL RepositoryURL
	description   Description
	capacity      Capacity
	createdAt     time.Time
	updatedAt     time.Time
}

// NewProject creates a new Project entity
func NewProject(ownerID user.UserID, repositoryURL, description string, contributorsNeeded int) (*Project, error) {
	repoURL, err := NewRepositoryURL(repositoryURL)
	if err != nil {
		return nil, err
	}

	desc, err := NewDescription(description)
	if err != nil {
		return nil, err
	}

	capacity, err := NewCapacity(contributorsNeeded)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Project{
		id:            NewProjectID(),
		ownerID:       ownerID,
		repositoryURL: repoURL,
		description:   desc,
		capacity:      capacity,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstitute recreates a Project entity from persistence.
// The stored URL is trusted as-is; OwnerAndName reports it if it is unusable.
func Reconstitute(
	id, ownerID, repositoryURL, description string,
	contributorsNeeded int,
	createdAt, updatedAt time.Time,
) (*Project, error) {
	projectID, err := ParseProjectID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID: %w", err)
	}

	owner, err := user.ParseUserID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID: %w", err)
	}

	if contributorsNeeded < 0 {
		contributorsNeeded = 0
	}

	return &Project{
		id:            projectID,
		ownerID:       owner,
		repositoryURL: RepositoryURL{value: repositoryURL},
		description:   Description{value: description},
		capacity:      Capacity{value: contributorsNeeded},
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// Update replaces the editable fields of the project
func (p *Project) Update(repositoryURL, description string, contributorsNeeded int) error {
	repoURL, err := NewRepositoryURL(repositoryURL)
	if err != nil {
		return err
	}

	desc, err := NewDescription(description)
	if err != nil {
		return err
	}

	capacity, err := NewCapacity(contributorsNeeded)
	if err != nil {
		return err
	}

	p.repositoryURL = repoURL
	p.description = desc
	p.capacity = capacity
	p.updatedAt = time.Now().UTC()

	return nil
}

// BelongsToUser checks if the project belongs to the specified user
func (p *Project) BelongsToUser(userID user.UserID) bool {
	return p.ownerID.Equals(userID)
}

// Getters

func (p *Project) ID() ProjectID {
	return p.id
}

func (p *Project) OwnerID() user.UserID {
	return p.ownerID
}

func (p *Project) RepositoryURL() RepositoryURL {
	return p.repositoryURL
}

func (p *Project) Description() Description {
	return p.description
}

func (p *Project) ContributorsNeeded() int {
	return p.capacity.Int()
}

func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Project) UpdatedAt() time.Time {
	return p.updatedAt
}

// String returns string representation (for debugging)
func (p *Project) String() string {
	return fmt.Sprintf("Project{id: %s, owner: %s, repo: %s, needed: %d}",
		p.id.String(), p.ownerID.String(), p.repositoryURL.String(), p.capacity.Int())
}
