// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TagList is a post's tag set, stored as a jsonb array. Order is preserved
// for display; matching treats it as a set.
type TagList []string

// Value marshals the tag list to jsonb for storage.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan unmarshals a jsonb array from the database.
func (t *TagList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}
}

// Contains reports whether the tag list includes the given tag.
func (t TagList) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// PostAuthor is the resolved author reference embedded in post responses,
// limited to the fields the original feed views expose (name, avatar).
type PostAuthor struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// PostCategory is the resolved category reference embedded in post responses.
type PostCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Post represents a published or draft article.
//
// Author is set once at creation and never changes. ViewCount only moves
// through the view-by-slug read path. Comments are an owned, ordered
// collection: they live and die with the post.
type Post struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Content     string        `json:"content"`
	ContentHTML string        `json:"contentHtml,omitempty"`
	Excerpt     string        `json:"excerpt"`
	AuthorID    uuid.UUID     `json:"author_id"`
	Author      *PostAuthor   `json:"author,omitempty"`
	CategoryID  *uuid.UUID    `json:"category_id,omitempty"`
	Category    *PostCategory `json:"category,omitempty"`
	Tags        TagList       `json:"tags"`
	IsPublished bool          `json:"isPublished"`
	ViewCount   int           `json:"viewCount"`
	Comments    []Comment     `json:"comments,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Comment is a single comment owned by a post, keyed by its own id so it
// can be removed individually.
type Comment struct {
	ID        uuid.UUID   `json:"id"`
	PostID    uuid.UUID   `json:"post_id"`
	UserID    uuid.UUID   `json:"user_id"`
	User      *PostAuthor `json:"user,omitempty"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
