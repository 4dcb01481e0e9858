package store

import (
	"errors"
	"testing"
)

func TestSubscriberLifecycle(t *testing.T) {
	db := testDB(t)
	subs := NewSubscriberStore(db)

	email := "subscriber-test@aironlab.local"
	t.Cleanup(func() { cleanSubscribers(t, db, email) })

	created, err := subs.Subscribe(email, "blog")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if created.Email != email || created.Source != "blog" {
		t.Errorf("unexpected subscriber: %+v", created)
	}

	// Duplicate subscription is a conflict.
	_, err = subs.Subscribe(email, "footer")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	if err := subs.Unsubscribe(email); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	// Unsubscribing an unknown address is a no-op.
	if err := subs.Unsubscribe("nobody@aironlab.local"); err != nil {
		t.Errorf("Unsubscribe unknown: %v", err)
	}
}
