package models

import "testing"

func TestPostStatusValid(t *testing.T) {
	tests := []struct {
		status PostStatus
		want   bool
	}{
		{PostStatusDraft, true},
		{PostStatusPublished, true},
		{PostStatus("all"), false},
		{PostStatus(""), false},
		{PostStatus("archived"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("PostStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPostIsPublished(t *testing.T) {
	p := &Post{Status: PostStatusDraft}
	if p.IsPublished() {
		t.Error("draft post reported as published")
	}

	p.Status = PostStatusPublished
	if !p.IsPublished() {
		t.Error("published post not reported as published")
	}
}

func TestUserHelpers(t *testing.T) {
	admin := &User{Role: RoleAdmin, TOTPEnabled: true}
	if !admin.IsAdmin() {
		t.Error("admin role not detected")
	}
	if admin.Needs2FASetup() {
		t.Error("enrolled user should not need 2FA setup")
	}

	editor := &User{Role: RoleEditor}
	if editor.IsAdmin() {
		t.Error("editor reported as admin")
	}
	if !editor.Needs2FASetup() {
		t.Error("unenrolled user should need 2FA setup")
	}
}

func TestMediaHumanSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}

	for _, tt := range tests {
		m := &Media{SizeBytes: tt.bytes}
		if got := m.HumanSize(); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestMediaIsImage(t *testing.T) {
	img := &Media{ContentType: "image/png"}
	if !img.IsImage() {
		t.Error("png not detected as image")
	}

	pdf := &Media{ContentType: "application/pdf"}
	if pdf.IsImage() {
		t.Error("pdf detected as image")
	}
}
