package comments

import (
	"errors"
	"strings"

	"connections-app/internal/domain/connections"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrParentNotFound     = errors.New("parent comment not found")
	ErrParentMismatch     = errors.New("parent comment does not belong to this connection")
	ErrEmptyContent       = errors.New("comment content must not be empty")
	ErrNotAuthor          = errors.New("only the author can modify this comment")
)

// Create adds a comment on a connection, optionally as a reply.
func Create(db *gorm.DB, connectionID string, userID uint, content string, parentID *string) (*connections.ConnectionComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var count int64
	if err := db.Model(&connections.Connection{}).Where("id = ?", connectionID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrConnectionNotFound
	}

	if parentID != nil {
		var parent connections.ConnectionComment
		if err := db.First(&parent, "id = ?", *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ConnectionID != connectionID {
			return nil, ErrParentMismatch
		}
	}

	comment := connections.ConnectionComment{
		ConnectionID: connectionID,
		UserID:       userID,
		Content:      strings.TrimSpace(content),
		ParentID:     parentID,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

type CommentNode struct {
	connections.ConnectionComment
	Replies []*CommentNode `json:"replies"`
}

// FetchConnectionComments returns a connection's root comments, newest
// first, with reply trees attached level by level over the parent index.
func FetchConnectionComments(db *gorm.DB, connectionID string) ([]*CommentNode, error) {
	var roots []connections.ConnectionComment
	err := db.Where("connection_id = ? AND parent_id IS NULL", connectionID).
		Order("created_at DESC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*CommentNode)
	result := make([]*CommentNode, 0, len(roots))
	frontier := make([]string, 0, len(roots))
	for _, c := range roots {
		node := &CommentNode{ConnectionComment: c, Replies: []*CommentNode{}}
		nodes[c.ID] = node
		result = append(result, node)
		frontier = append(frontier, c.ID)
	}

	for len(frontier) > 0 {
		var replies []connections.ConnectionComment
		err := db.Where("parent_id IN ?", frontier).
			Order("created_at ASC").
			Find(&replies).Error
		if err != nil {
			return nil, err
		}
		if len(replies) == 0 {
			break
		}

		next := make([]string, 0, len(replies))
		for _, c := range replies {
			node := &CommentNode{ConnectionComment: c, Replies: []*CommentNode{}}
			nodes[c.ID] = node
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
			}
			next = append(next, c.ID)
		}
		frontier = next
	}

	return result, nil
}

// Update rewrites a comment's content. Author only.
func Update(db *gorm.DB, commentID string, userID uint, content string) (*connections.ConnectionComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var comment connections.ConnectionComment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotAuthor
	}

	comment.Content = strings.TrimSpace(content)
	if err := db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment and its whole reply subtree. Allowed for the
// author and for admins.
func Delete(db *gorm.DB, commentID string, userID uint, isAdmin bool) error {
	var comment connections.ConnectionComment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID && !isAdmin {
		return ErrNotAuthor
	}

	doomed := []string{comment.ID}
	frontier := []string{comment.ID}
	for len(frontier) > 0 {
		var childIDs []string
		err := db.Model(&connections.ConnectionComment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &childIDs).Error
		if err != nil {
			return err
		}
		if len(childIDs) == 0 {
			break
		}
		doomed = append(doomed, childIDs...)
		frontier = childIDs
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id IN ?", doomed).Delete(&connections.ConnectionComment{}).Error
	})
}
