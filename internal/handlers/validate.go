package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"notely/internal/apperr"
	"notely/internal/models"
)

// Validation limits for post, category, and user fields. Category and user
// limits match the database schema.
const (
	maxTitleLen   = 200
	maxContentLen = 100_000
	maxExcerptLen = 1_000
	maxTagLen     = 50
	maxTags       = 20
	maxCommentLen = 2_000
	maxNameLen    = 50
	minPasswordLen = 8
)

// emailPattern matches the address format accepted at registration.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// validatePostInput checks the create-post payload.
func validatePostInput(title, content, excerpt string, tags []string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperr.Validation("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Validation("Title cannot be more than %d characters", maxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return apperr.Validation("Content cannot be more than %d characters", maxContentLen)
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return apperr.Validation("Excerpt cannot be more than %d characters", maxExcerptLen)
	}
	if len(tags) > maxTags {
		return apperr.Validation("A post cannot have more than %d tags", maxTags)
	}
	for _, tag := range tags {
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLen {
			return apperr.Validation("Tags must be 1-%d characters", maxTagLen)
		}
	}
	return nil
}

// validateCategoryInput checks category name and description against the
// schema limits.
func validateCategoryInput(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("Category name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxCategoryNameLen {
		return apperr.Validation("Category name cannot be more than %d characters", models.MaxCategoryNameLen)
	}
	if utf8.RuneCountInString(description) > models.MaxCategoryDescLen {
		return apperr.Validation("Description cannot be more than %d characters", models.MaxCategoryDescLen)
	}
	return nil
}

// validateComment checks a comment body.
func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return apperr.Validation("Comment cannot be more than %d characters", maxCommentLen)
	}
	return nil
}

// validateName checks a user display name.
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("Please provide a name")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return apperr.Validation("Name cannot be more than %d characters", maxNameLen)
	}
	return nil
}

// validateEmail checks the address format.
func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validation("Please provide a valid email")
	}
	return nil
}

// validatePassword checks the minimum password length for local accounts.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperr.Validation("Password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// validateRole checks a requested role value.
func validateRole(role models.Role) error {
	if !role.Valid() {
		return apperr.Validation("Role must be %q or %q", models.RoleReader, models.RoleCreator)
	}
	return nil
}
