package service

import (
	"errors"
	"testing"

	"socialnet/internal/model"
)

func newProfileFixture(t *testing.T) (ProfileService, *fakeProfileRepo, *fakeFriendshipRepo) {
	t.Helper()
	profileRepo := newFakeProfileRepo()
	friendshipRepo := newFakeFriendshipRepo()
	svc := NewProfileService(profileRepo, friendshipRepo)
	return svc, profileRepo, friendshipRepo
}

func TestGetProfileFriendsOnly(t *testing.T) {
	svc, profileRepo, friendshipRepo := newProfileFixture(t)
	profileRepo.Create(&model.Profile{UserID: "bob", Name: "Bob"})

	// A stranger cannot view the profile
	if _, err := svc.GetProfile("alice", "bob"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("stranger: err = %v, want ErrNotAuthorized", err)
	}

	// A friend can
	friendshipRepo.addFriendship("alice", "bob")
	profile, err := svc.GetProfile("alice", "bob")
	if err != nil {
		t.Fatalf("friend: %v", err)
	}
	if profile.Name != "Bob" {
		t.Errorf("name = %q, want Bob", profile.Name)
	}

	// The owner always can
	if _, err := svc.GetProfile("bob", "bob"); err != nil {
		t.Errorf("owner: %v", err)
	}
}

func TestGetProfileMissing(t *testing.T) {
	svc, _, friendshipRepo := newProfileFixture(t)
	friendshipRepo.addFriendship("alice", "bob")

	if _, err := svc.GetProfile("alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, profileRepo, _ := newProfileFixture(t)
	bio := "original bio"
	profileRepo.Create(&model.Profile{UserID: "alice", Name: "Alice", Bio: &bio})

	location := "Berlin"
	updated, err := svc.UpdateProfile("alice", UpdateProfileRequest{Location: &location})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Location == nil || *updated.Location != "Berlin" {
		t.Errorf("location not updated")
	}
	// Omitted fields stay untouched
	if updated.Name != "Alice" || updated.Bio == nil || *updated.Bio != "original bio" {
		t.Errorf("unrelated fields changed: name=%q bio=%v", updated.Name, updated.Bio)
	}
}
