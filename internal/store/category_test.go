package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"notely/internal/models"
)

// makeCategory inserts a category fixture and registers cleanup.
func makeCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()
	s := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	c, err := s.Create(&models.Category{Name: name, Slug: slug, Description: "fixture"})
	if err != nil {
		t.Fatalf("create fixture category %s: %v", slug, err)
	}
	return c
}

func TestCategoryCRUD(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, "crud-cat") })

	created, err := s.Create(&models.Category{Name: "CRUD Cat", Slug: "crud-cat", Description: "d"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("created category has nil id")
	}

	byID, err := s.FindByID(created.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	bySlug, err := s.FindBySlug("crud-cat")
	if err != nil || bySlug == nil || bySlug.ID != created.ID {
		t.Fatalf("FindBySlug: %v, %v", bySlug, err)
	}
	byName, err := s.FindByName("CRUD Cat")
	if err != nil || byName == nil || byName.ID != created.ID {
		t.Fatalf("FindByName: %v, %v", byName, err)
	}

	created.Name = "Renamed Cat"
	created.Slug = "renamed-cat"
	t.Cleanup(func() { cleanCategories(t, db, "renamed-cat") })
	updated, err := s.Update(created)
	if err != nil || updated == nil {
		t.Fatalf("Update: %v, %v", updated, err)
	}
	if updated.Name != "Renamed Cat" || updated.Slug != "renamed-cat" {
		t.Errorf("Update = %+v", updated)
	}

	gone, err := s.Update(&models.Category{ID: uuid.New(), Name: "x", Slug: "x-gone"})
	if err != nil {
		t.Fatalf("Update(random): %v", err)
	}
	if gone != nil {
		t.Error("Update(random) returned a category, want nil")
	}

	deleted, err := s.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Delete returned false for unused category")
	}
}

func TestCategoryDeleteGuard(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	author := makeUser(t, db, "cat-guard@test.local", models.RoleCreator)

	t.Cleanup(func() { cleanCategories(t, db, "guarded-cat") })
	cat, err := s.Create(&models.Category{Name: "Guarded Cat", Slug: "guarded-cat"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	makePost(t, db, author.ID, "guard-post", true, func(p *models.Post) {
		p.CategoryID = &cat.ID
	})

	deleted, err := s.Delete(cat.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("category deleted while a post references it")
	}

	count, err := s.CountPostsUsing(cat.ID)
	if err != nil {
		t.Fatalf("CountPostsUsing: %v", err)
	}
	if count != 1 {
		t.Errorf("CountPostsUsing = %d, want 1", count)
	}

	// Once the post is gone the delete succeeds.
	cleanPosts(t, db, "guard-post")
	deleted, err = s.Delete(cat.ID)
	if err != nil {
		t.Fatalf("Delete after post removal: %v", err)
	}
	if !deleted {
		t.Error("delete failed with no referencing posts")
	}
}

func TestCategoryStats(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	author := makeUser(t, db, "cat-stats@test.local", models.RoleCreator)

	t.Cleanup(func() { cleanCategories(t, db, "stats-cat") })
	cat, err := s.Create(&models.Category{Name: "Stats Cat", Slug: "stats-cat"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	withCat := func(p *models.Post) { p.CategoryID = &cat.ID }
	makePost(t, db, author.ID, "stats-pub-1", true, withCat)
	makePost(t, db, author.ID, "stats-pub-2", true, withCat)
	makePost(t, db, author.ID, "stats-draft", false, withCat)

	// Accumulate some views on one post.
	ps := NewPostStore(db)
	for i := 0; i < 3; i++ {
		if _, err := ps.ViewBySlug("stats-pub-1"); err != nil {
			t.Fatalf("ViewBySlug: %v", err)
		}
	}

	stats, err := s.Stats(cat)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Category != "Stats Cat" {
		t.Errorf("Category = %q", stats.Category)
	}
	if stats.TotalPosts != 3 || stats.PublishedPosts != 2 || stats.DraftPosts != 1 {
		t.Errorf("counts = %+v, want total 3 / published 2 / drafts 1", stats)
	}
	if stats.TotalViews != 3 {
		t.Errorf("TotalViews = %d, want 3", stats.TotalViews)
	}
}

func TestCategoryStatsEmpty(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	t.Cleanup(func() { cleanCategories(t, db, "empty-cat") })
	cat, err := s.Create(&models.Category{Name: "Empty Cat", Slug: "empty-cat"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stats, err := s.Stats(cat)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalPosts != 0 || stats.TotalViews != 0 {
		t.Errorf("empty category stats = %+v, want zeros", stats)
	}
}
