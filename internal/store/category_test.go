package store

import (
	"errors"
	"testing"

	"aironlab/internal/models"
)

func TestCategoryCRUD(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	t.Cleanup(func() { cleanCategories(t, db, "test-cat-crud") })

	created, err := categories.Create(&models.Category{
		Name:        "Test Cat CRUD",
		Slug:        "test-cat-crud",
		Description: strptr("About testing"),
		Color:       strptr("#FF6B6B"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := categories.FindBySlug("test-cat-crud")
	if err != nil || found == nil {
		t.Fatalf("FindBySlug: %v, %v", found, err)
	}
	if found.ID != created.ID || found.Color == nil || *found.Color != "#FF6B6B" {
		t.Errorf("unexpected category: %+v", found)
	}

	found.Name = "Renamed Cat"
	if err := categories.Update(found); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := categories.FindByID(found.ID)
	if again.Name != "Renamed Cat" {
		t.Errorf("update not persisted: %+v", again)
	}

	if err := categories.Delete(found.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := categories.FindByID(found.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("category should be gone after delete")
	}
}

func TestCategoryDuplicateSlug(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	t.Cleanup(func() { cleanCategories(t, db, "test-cat-dup") })

	if _, err := categories.Create(&models.Category{Name: "Dup", Slug: "test-cat-dup"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := categories.Create(&models.Category{Name: "Dup 2", Slug: "test-cat-dup"})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestCategoryCountPosts(t *testing.T) {
	db := testDB(t)
	author := testAuthor(t, db)
	categories := NewCategoryStore(db)
	posts := NewPostStore(db)

	t.Cleanup(func() {
		cleanPosts(t, db, "test-cat-count-post")
		cleanCategories(t, db, "test-cat-count")
	})

	cat, err := categories.Create(&models.Category{Name: "Count Cat", Slug: "test-cat-count"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := categories.CountPosts(cat.ID)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 posts, got %d", n)
	}

	p, err := posts.Create(&models.Post{
		Title: "Counted", Slug: "test-cat-count-post", Content: "x",
		Status: models.PostStatusDraft, AuthorID: author.ID, CategoryID: &cat.ID, ReadTime: 1,
	}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	n, err = categories.CountPosts(cat.ID)
	if err != nil {
		t.Fatalf("CountPosts: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 post, got %d", n)
	}

	// List exposes the same count.
	list, err := categories.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range list {
		if c.ID == cat.ID && c.PostCount != 1 {
			t.Errorf("List post_count = %d, want 1", c.PostCount)
		}
	}

	posts.Delete(p.ID)
}
