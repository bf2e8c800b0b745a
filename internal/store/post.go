// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"notely/internal/models"
)

// DefaultPageSize is the post list page size when the caller omits limit.
const DefaultPageSize = 10

// PostStore handles all post-related database operations, including the
// comments owned by each post.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect joins the author and category so list and read responses carry
// resolved references, mirroring what the feed views need (name, avatar,
// category name/slug).
const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.author_id, p.category_id,
	       p.tags, p.is_published, p.view_count, p.created_at, p.updated_at,
	       u.name, u.avatar, c.name, c.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined post row, assembling the resolved author and
// category references.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var authorName, authorAvatar string
	var catName, catSlug sql.NullString
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.AuthorID, &p.CategoryID,
		&p.Tags, &p.IsPublished, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&authorName, &authorAvatar, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	p.Author = &models.PostAuthor{ID: p.AuthorID, Name: authorName, Avatar: authorAvatar}
	if p.CategoryID != nil && catName.Valid {
		p.Category = &models.PostCategory{ID: *p.CategoryID, Name: catName.String, Slug: catSlug.String}
	}
	return &p, nil
}

// ListParams are the post listing filters. All present filters AND together.
// IsPublished is tri-state: nil means published-only (the public default).
type ListParams struct {
	Page        int
	Limit       int
	Search      string
	Category    *uuid.UUID
	Tag         string
	IsPublished *bool
}

// ListResult is a single page of posts plus pagination totals.
type ListResult struct {
	Posts       []models.Post
	Count       int
	TotalPages  int
	CurrentPage int
}

// List returns a filtered, paginated page of posts, newest first, with
// author and category resolved. Count is the pre-pagination total.
func (s *PostStore) List(params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultPageSize
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.IsPublished != nil {
		conds = append(conds, "p.is_published = "+arg(*params.IsPublished))
	} else {
		conds = append(conds, "p.is_published = TRUE")
	}
	if params.Search != "" {
		pattern := arg("%" + params.Search + "%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s)", pattern, pattern))
	}
	if params.Category != nil {
		conds = append(conds, "p.category_id = "+arg(*params.Category))
	}
	if params.Tag != "" {
		conds = append(conds, "p.tags ? "+arg(params.Tag))
	}

	where := " WHERE " + strings.Join(conds, " AND ")

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p`+where, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	query := postSelect + where + " ORDER BY p.created_at DESC LIMIT " +
		arg(params.Limit) + " OFFSET " + arg((params.Page-1)*params.Limit)

	posts, err := s.queryPosts(query, args...)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Posts:       posts,
		Count:       count,
		TotalPages:  (count + params.Limit - 1) / params.Limit,
		CurrentPage: params.Page,
	}, nil
}

// queryPosts runs a postSelect-shaped query and scans all rows.
func (s *PostStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post with author, category, and comments resolved.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if p.Comments, err = s.ListComments(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of publish state, with
// author, category, and comments resolved. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if p.Comments, err = s.ListComments(p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// ViewBySlug atomically increments the post's view counter and returns the
// post with the new count. Every call counts: there is no per-viewer dedup.
// Returns nil if no post has the slug.
func (s *PostStore) ViewBySlug(slug string) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		UPDATE posts SET view_count = view_count + 1 WHERE slug = $1 RETURNING id
	`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}
	return s.FindByID(id)
}

// SlugExists reports whether any post other than excludeID uses the slug.
// Pass uuid.Nil to check against all posts.
func (s *PostStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with references resolved.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, author_id, category_id, tags, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.AuthorID, p.CategoryID, p.Tags, p.IsPublished).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing post. The author column is deliberately not
// part of the statement: authorship never changes. Returns nil if the post
// is gone.
func (s *PostStore) Update(p *models.Post) (*models.Post, error) {
	res, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			category_id = $5, tags = $6, is_published = $7, updated_at = NOW()
		WHERE id = $8
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.CategoryID, p.Tags, p.IsPublished, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.FindByID(p.ID)
}

// Delete removes a post. Its comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// TogglePublish flips the publish flag without touching content. Returns
// nil if the post is gone.
func (s *PostStore) TogglePublish(id uuid.UUID) (*models.Post, error) {
	res, err := s.db.Exec(`
		UPDATE posts SET is_published = NOT is_published, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.FindByID(id)
}

// ListByAuthor returns an author's posts, newest first. When publishedOnly
// is false the caller sees drafts too (the creator dashboard view).
func (s *PostStore) ListByAuthor(authorID uuid.UUID, publishedOnly bool) ([]models.Post, error) {
	if publishedOnly {
		return s.queryPosts(postSelect+`
			WHERE p.author_id = $1 AND p.is_published = TRUE
			ORDER BY p.created_at DESC`, authorID)
	}
	return s.queryPosts(postSelect+`
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC`, authorID)
}

// ListForCategory returns the published posts in a category, newest first.
func (s *PostStore) ListForCategory(categoryID uuid.UUID) ([]models.Post, error) {
	return s.queryPosts(postSelect+`
		WHERE p.category_id = $1 AND p.is_published = TRUE
		ORDER BY p.created_at DESC`, categoryID)
}

// ListPopular returns published posts by descending view count.
func (s *PostStore) ListPopular(limit int) ([]models.Post, error) {
	return s.queryPosts(postSelect+`
		WHERE p.is_published = TRUE
		ORDER BY p.view_count DESC
		LIMIT $1`, limit)
}

// ListRelated returns published posts sharing the post's category or any of
// its tags, excluding the post itself, newest first.
func (s *PostStore) ListRelated(p *models.Post, limit int) ([]models.Post, error) {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return s.queryPosts(postSelect+`
		WHERE p.id <> $1 AND p.is_published = TRUE
		  AND (p.category_id = $2 OR p.tags ?| $3)
		ORDER BY p.created_at DESC
		LIMIT $4`, p.ID, p.CategoryID, tags, limit)
}

// ListComments returns a post's comments in insertion order with each
// comment's user resolved.
func (s *PostStore) ListComments(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at, u.name, u.avatar
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC, cm.id ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var userName, userAvatar string
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &userName, &userAvatar); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.User = &models.PostAuthor{ID: c.UserID, Name: userName, Avatar: userAvatar}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// AddComment appends a comment to a post.
func (s *PostStore) AddComment(postID, userID uuid.UUID, content string) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at
	`, postID, userID, content).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &c, nil
}

// FindComment retrieves a single comment of a post. Returns nil if absent.
func (s *PostStore) FindComment(postID, commentID uuid.UUID) (*models.Comment, error) {
	var c models.Comment
	err := s.db.QueryRow(`
		SELECT id, post_id, user_id, content, created_at
		FROM comments WHERE id = $1 AND post_id = $2
	`, commentID, postID).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

// DeleteComment removes a single comment by id.
func (s *PostStore) DeleteComment(commentID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CountByAuthor returns how many posts a user authors, published or not.
func (s *PostStore) CountByAuthor(authorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return count, nil
}
