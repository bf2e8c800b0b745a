// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Validation limits matching the database schema.
const (
	MaxCategoryNameLen = 50
	MaxCategoryDescLen = 200
)

// Category groups posts under a unique name. Posts can have at most one
// category assigned; a category cannot be deleted while posts reference it.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryStats aggregates post counts and views for a single category.
type CategoryStats struct {
	Category       string `json:"category"`
	TotalPosts     int    `json:"totalPosts"`
	PublishedPosts int    `json:"publishedPosts"`
	DraftPosts     int    `json:"draftPosts"`
	TotalViews     int    `json:"totalViews"`
}
