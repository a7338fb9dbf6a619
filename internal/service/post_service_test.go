package service

import (
	"errors"
	"testing"
)

func newPostFixture(t *testing.T, userIDs ...string) (PostService, *fakePostRepo) {
	t.Helper()
	postRepo := newFakePostRepo()
	userRepo := newFakeUserRepo(userIDs...)
	moderation := NewModerationService(&fakeModerationRepo{})
	svc := NewPostService(postRepo, userRepo, moderation)
	return svc, postRepo
}

func TestCreatePostWithTags(t *testing.T) {
	svc, _ := newPostFixture(t, "alice", "bob", "carol")

	post, err := svc.CreatePost("alice", CreatePostRequest{
		Content:       "out hiking",
		TaggedUserIDs: []string{"bob", "carol", "alice", "ghost"},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	// Self-tags and unknown users are dropped
	tagged := post.TaggedUserIDs()
	if len(tagged) != 2 {
		t.Fatalf("tagged = %v, want bob and carol", tagged)
	}
	for _, id := range tagged {
		if id != "bob" && id != "carol" {
			t.Errorf("unexpected tagged user %s", id)
		}
	}
}

func TestCreatePostModerated(t *testing.T) {
	svc, _ := newPostFixture(t, "alice")

	_, err := svc.CreatePost("alice", CreatePostRequest{Content: "stupid idiot rant"})
	if !errors.Is(err, ErrContentRejected) {
		t.Errorf("err = %v, want ErrContentRejected", err)
	}
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	svc, _ := newPostFixture(t, "alice", "bob")

	post, err := svc.CreatePost("alice", CreatePostRequest{Content: "original"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if _, err := svc.UpdatePost("bob", post.ID, UpdatePostRequest{Content: "hijacked"}); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}

	updated, err := svc.UpdatePost("alice", post.ID, UpdatePostRequest{Content: "edited"})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %q, want %q", updated.Content, "edited")
	}
}

func TestDeletePostAuthorOnly(t *testing.T) {
	svc, _ := newPostFixture(t, "alice", "bob")

	post, err := svc.CreatePost("alice", CreatePostRequest{Content: "to delete"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := svc.DeletePost("bob", post.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("err = %v, want ErrNotAuthorized", err)
	}
	if err := svc.DeletePost("alice", post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := svc.GetPostByID(post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
