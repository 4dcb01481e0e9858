package store

import "testing"

func TestAuthorFindOrCreateByEmail(t *testing.T) {
	db := testDB(t)
	authors := NewAuthorStore(db)

	email := "lazy-author@aironlab.local"
	t.Cleanup(func() { db.Exec("DELETE FROM blog_authors WHERE email = $1", email) })

	first, err := authors.FindOrCreateByEmail(email, "Lazy Author")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail: %v", err)
	}
	if first.Name != "Lazy Author" || first.Email != email {
		t.Errorf("unexpected author: %+v", first)
	}

	// A second call returns the same row, keeping the original name.
	second, err := authors.FindOrCreateByEmail(email, "Different Name")
	if err != nil {
		t.Fatalf("second FindOrCreateByEmail: %v", err)
	}
	if second.ID != first.ID {
		t.Error("expected the existing author row")
	}
	if second.Name != "Lazy Author" {
		t.Errorf("name should not change on reuse, got %q", second.Name)
	}
}

func TestAuthorUpdate(t *testing.T) {
	db := testDB(t)
	authors := NewAuthorStore(db)

	email := "update-author@aironlab.local"
	t.Cleanup(func() { db.Exec("DELETE FROM blog_authors WHERE email = $1", email) })

	a, err := authors.FindOrCreateByEmail(email, "Before")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail: %v", err)
	}

	a.Name = "After"
	a.Bio = strptr("Writes about AI integration.")
	if err := authors.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := authors.FindByID(a.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID: %v, %v", got, err)
	}
	if got.Name != "After" || got.Bio == nil || *got.Bio != "Writes about AI integration." {
		t.Errorf("update not persisted: %+v", got)
	}
}
