package service

import (
	"context"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/user"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseUserID(id string) (user.UserID, error) {
	uid, err := user.ParseUserID(id)
	if err != nil {
		return user.UserID{}, errs.Wrap(errs.CodeInvalidInput, "invalid user ID", err)
	}
	return uid, nil
}

func normalizePage(page, limit int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func pagination(page, limit int32, total int64) dto.PaginationResponse {
	return dto.PaginationResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

// usernameCache resolves user IDs to usernames once per call site.
// Unknown users render as an empty name.
type usernameCache struct {
	repo  user.Repository
	names map[string]string
}

func newUsernameCache(repo user.Repository) *usernameCache {
	return &usernameCache{repo: repo, names: make(map[string]string)}
}

func (c *usernameCache) lookup(ctx context.Context, id user.UserID) string {
	if name, ok := c.names[id.String()]; ok {
		return name
	}
	var name string
	if u, err := c.repo.FindByID(ctx, id); err == nil {
		name = u.Username().String()
	}
	c.names[id.String()] = name
	return name
}
