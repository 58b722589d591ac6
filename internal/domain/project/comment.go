package project

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/user"
)

// Comment is a remark left on a project page.
type Comment struct {
	id        uuid.UUID
	projectID ProjectID
	authorID  user.UserID
	text      string
	createdAt time.Time
}

// NewComment validates and creates a comment
func NewComment(projectID ProjectID, authorID user.UserID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.New(errs.CodeInvalidInput, "comment cannot be empty")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, errs.Newf(errs.CodeInvalidInput, "comment too long (max %d characters)", maxCommentLength)
	}

	return &Comment{
		id:        uuid.New(),
		projectID: projectID,
		authorID:  authorID,
		text:      text,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstituteComment recreates a Comment from persistence
func ReconstituteComment(id, projectID, authorID, text string, createdAt time.Time) (*Comment, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %w", err)
	}
	pid, err := ParseProjectID(projectID)
	if err != nil {
		return nil, err
	}
	aid, err := user.ParseUserID(authorID)
	if err != nil {
		return nil, err
	}
	return &Comment{id: cid, projectID: pid, authorID: aid, text: text, createdAt: createdAt}, nil
}

func (c *Comment) ID() string {
	return c.id.String()
}

func (c *Comment) ProjectID() ProjectID {
	return c.projectID
}

func (c *Comment) AuthorID() user.UserID {
	return c.authorID
}

func (c *Comment) Text() string {
	return c.text
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}
