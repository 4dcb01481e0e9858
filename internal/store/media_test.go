package store

import (
	"testing"

	"aironlab/internal/models"
)

func TestMediaCRUD(t *testing.T) {
	db := testDB(t)
	media := NewMediaStore(db)
	users := NewUserStore(db)

	email := "media-uploader@aironlab.local"
	t.Cleanup(func() {
		db.Exec("DELETE FROM media WHERE original_name = 'test-photo.png'")
		cleanUsers(t, db, email)
	})

	uploader, err := users.Create(email, "pass", "Uploader", models.RoleEditor)
	if err != nil {
		t.Fatalf("create uploader: %v", err)
	}

	created, err := media.Create(&models.Media{
		Filename:     "1756600000-abc123.png",
		OriginalName: "test-photo.png",
		ContentType:  "image/png",
		SizeBytes:    2048,
		Bucket:       "blog-images",
		Key:          "uploads/1756600000-abc123.png",
		ThumbKey:     strptr("uploads/thumbs/1756600000-abc123.png"),
		UploaderID:   uploader.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := media.FindByID(created.ID)
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v, %v", found, err)
	}
	if found.Key != created.Key || found.ThumbKey == nil {
		t.Errorf("unexpected media row: %+v", found)
	}
	if !found.IsImage() {
		t.Error("png should be detected as image")
	}

	list, err := media.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var seen bool
	for _, m := range list {
		if m.ID == created.ID {
			seen = true
		}
	}
	if !seen {
		t.Error("created row missing from List")
	}

	if err := media.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, _ := media.FindByID(created.ID)
	if gone != nil {
		t.Error("media should be gone after delete")
	}
}
