package service

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"socialnet/internal/model"
)

type recapFixture struct {
	svc            RecapService
	friendshipRepo *fakeFriendshipRepo
	postRepo       *fakePostRepo
	commentRepo    *fakeCommentRepo
	reactionRepo   *fakeReactionRepo
	recapRepo      *fakeRecapRepo
}

func newRecapFixture(t *testing.T) *recapFixture {
	t.Helper()
	f := &recapFixture{
		friendshipRepo: newFakeFriendshipRepo(),
		postRepo:       newFakePostRepo(),
		commentRepo:    newFakeCommentRepo(),
		reactionRepo:   newFakeReactionRepo(),
		recapRepo:      &fakeRecapRepo{},
	}
	f.svc = NewRecapService(f.recapRepo, f.friendshipRepo, f.postRepo, f.commentRepo, f.reactionRepo, nil)
	return f
}

var (
	windowStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	inWindow    = windowStart.Add(24 * time.Hour)
)

func taggedPost(userID string, createdAt time.Time, taggedIDs ...string) *model.Post {
	post := &model.Post{UserID: userID, Content: "hello", CreatedAt: createdAt}
	for _, id := range taggedIDs {
		post.Tags = append(post.Tags, model.PostTag{TaggedUserID: id})
	}
	return post
}

func TestGenerateRecapNoFriends(t *testing.T) {
	f := newRecapFixture(t)

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.ContentCount != 0 || recap.CommentCount != 0 || recap.ReactionCount != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/0/0", recap.ContentCount, recap.CommentCount, recap.ReactionCount)
	}
	if len(recap.GetInteractions()) != 0 {
		t.Errorf("interactions = %v, want empty", recap.GetInteractions())
	}
	if len(recap.GetMostInteracted()) != 0 || len(recap.GetLeastInteracted()) != 0 {
		t.Errorf("rankings should be empty with no friends")
	}
}

func TestGenerateRecapTagAttribution(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	f.postRepo.Create(taggedPost("alice", inWindow, "bob"))

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.ContentCount != 1 {
		t.Errorf("ContentCount = %d, want 1", recap.ContentCount)
	}
	if got := recap.GetInteractions(); got["bob"] != 1 {
		t.Errorf("interactions = %v, want bob:1", got)
	}
}

func TestGenerateRecapIgnoresNonFriendTags(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	// carol is tagged but is not a friend; she must not enter the map
	f.postRepo.Create(taggedPost("alice", inWindow, "bob", "carol"))

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	got := recap.GetInteractions()
	if _, ok := got["carol"]; ok {
		t.Errorf("non-friend carol appears in interactions: %v", got)
	}
	if got["bob"] != 1 {
		t.Errorf("interactions = %v, want bob:1", got)
	}
}

func TestGenerateRecapCommentAttribution(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	bobPost := &model.Post{UserID: "bob", Content: "bob's post", CreatedAt: inWindow}
	f.postRepo.Create(bobPost)
	f.commentRepo.Create(&model.Comment{
		UserID:     "alice",
		TargetType: model.TargetTypePost,
		TargetID:   bobPost.ID,
		Body:       "nice",
		CreatedAt:  inWindow,
	})

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.CommentCount != 1 {
		t.Errorf("CommentCount = %d, want 1", recap.CommentCount)
	}
	if got := recap.GetInteractions(); got["bob"] != 1 {
		t.Errorf("interactions = %v, want bob:1", got)
	}
}

func TestGenerateRecapReactionOnCommentAttribution(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	bobComment := &model.Comment{UserID: "bob", TargetType: model.TargetTypePost, TargetID: "some-post", Body: "hi", CreatedAt: inWindow}
	f.commentRepo.Create(bobComment)
	f.reactionRepo.Create(&model.Reaction{
		UserID:     "alice",
		TargetType: model.TargetTypeComment,
		TargetID:   bobComment.ID,
		Content:    "love",
		CreatedAt:  inWindow,
	})

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.ReactionCount != 1 {
		t.Errorf("ReactionCount = %d, want 1", recap.ReactionCount)
	}
	if got := recap.GetInteractions(); got["bob"] != 1 {
		t.Errorf("interactions = %v, want bob:1", got)
	}
}

func TestGenerateRecapSelfInteractionNotCounted(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	ownPost := &model.Post{UserID: "alice", Content: "mine", CreatedAt: inWindow}
	f.postRepo.Create(ownPost)
	f.commentRepo.Create(&model.Comment{
		UserID:     "alice",
		TargetType: model.TargetTypePost,
		TargetID:   ownPost.ID,
		Body:       "replying to myself",
		CreatedAt:  inWindow,
	})

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	got := recap.GetInteractions()
	if _, ok := got["alice"]; ok {
		t.Errorf("user credited themselves: %v", got)
	}
	if got["bob"] != 0 {
		t.Errorf("interactions = %v, want bob:0", got)
	}
}

func TestGenerateRecapMissingTargetSkipped(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	// The commented post was deleted; the comment contributes nothing
	f.commentRepo.Create(&model.Comment{
		UserID:     "alice",
		TargetType: model.TargetTypePost,
		TargetID:   "gone",
		Body:       "orphan",
		CreatedAt:  inWindow,
	})

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.CommentCount != 1 {
		t.Errorf("CommentCount = %d, want 1", recap.CommentCount)
	}
	if got := recap.GetInteractions(); got["bob"] != 0 {
		t.Errorf("interactions = %v, want bob:0", got)
	}
}

func TestGenerateRecapWindowBoundaries(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")

	f.postRepo.Create(taggedPost("alice", windowStart, "bob"))                      // at start: included
	f.postRepo.Create(taggedPost("alice", windowEnd, "bob"))                        // at end: excluded
	f.postRepo.Create(taggedPost("alice", windowStart.Add(-time.Second), "bob"))    // before: excluded
	f.postRepo.Create(taggedPost("alice", windowEnd.Add(-time.Millisecond), "bob")) // just inside: included

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if recap.ContentCount != 2 {
		t.Errorf("ContentCount = %d, want 2", recap.ContentCount)
	}
	if got := recap.GetInteractions(); got["bob"] != 2 {
		t.Errorf("interactions = %v, want bob:2", got)
	}
}

func TestGenerateRecapZeroCountFriendsRankLeast(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")
	f.friendshipRepo.addFriendship("alice", "carol")

	f.postRepo.Create(taggedPost("alice", inWindow, "bob"))

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}

	got := recap.GetInteractions()
	if got["carol"] != 0 {
		t.Errorf("carol = %d, want 0", got["carol"])
	}
	least := recap.GetLeastInteracted()
	if len(least) == 0 || least[0] != "carol" {
		t.Errorf("least = %v, want carol first", least)
	}
	most := recap.GetMostInteracted()
	if len(most) == 0 || most[0] != "bob" {
		t.Errorf("most = %v, want bob first", most)
	}
}

func TestGenerateRecapRankingTruncationAndTieBreak(t *testing.T) {
	f := newRecapFixture(t)
	friends := []string{"dave", "bob", "carol", "erin"}
	for _, id := range friends {
		f.friendshipRepo.addFriendship("alice", id)
	}

	// bob:2, carol:1, dave:1, erin:0
	f.postRepo.Create(taggedPost("alice", inWindow, "bob", "carol"))
	f.postRepo.Create(taggedPost("alice", inWindow.Add(time.Hour), "bob", "dave"))

	recap, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}

	// carol and dave tie at 1; ascending ID puts carol first
	wantMost := []string{"bob", "carol", "dave"}
	if got := recap.GetMostInteracted(); !reflect.DeepEqual(got, wantMost) {
		t.Errorf("most = %v, want %v", got, wantMost)
	}
	wantLeast := []string{"erin", "carol", "dave"}
	if got := recap.GetLeastInteracted(); !reflect.DeepEqual(got, wantLeast) {
		t.Errorf("least = %v, want %v", got, wantLeast)
	}
}

func TestGenerateRecapDeterministic(t *testing.T) {
	f := newRecapFixture(t)
	for _, id := range []string{"bob", "carol", "dave"} {
		f.friendshipRepo.addFriendship("alice", id)
	}
	f.postRepo.Create(taggedPost("alice", inWindow, "bob", "carol", "dave"))

	first, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
		if err != nil {
			t.Fatalf("GenerateRecap run %d: %v", i, err)
		}
		if !reflect.DeepEqual(again.GetInteractions(), first.GetInteractions()) {
			t.Fatalf("interactions differ between runs")
		}
		if !reflect.DeepEqual(again.GetMostInteracted(), first.GetMostInteracted()) {
			t.Fatalf("most ranking differs between runs")
		}
		if !reflect.DeepEqual(again.GetLeastInteracted(), first.GetLeastInteracted()) {
			t.Fatalf("least ranking differs between runs")
		}
	}
}

func TestGenerateRecapImmutableHistory(t *testing.T) {
	f := newRecapFixture(t)
	f.friendshipRepo.addFriendship("alice", "bob")
	f.postRepo.Create(taggedPost("alice", inWindow, "bob"))

	first, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}

	// More activity after the first recap; regenerating appends, and the
	// stored first recap keeps its original numbers
	f.postRepo.Create(taggedPost("alice", inWindow.Add(time.Hour), "bob"))
	second, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}
	if second.ID == first.ID {
		t.Error("regeneration must create a new recap, not overwrite")
	}

	recaps, total, err := f.svc.GetRecaps("alice", 10, 0)
	if err != nil {
		t.Fatalf("GetRecaps: %v", err)
	}
	if total != 2 || len(recaps) != 2 {
		t.Fatalf("total = %d, len = %d, want 2 and 2", total, len(recaps))
	}
	if first.GetInteractions()["bob"] != 1 {
		t.Errorf("first recap mutated: %v", first.GetInteractions())
	}
	if second.GetInteractions()["bob"] != 2 {
		t.Errorf("second recap = %v, want bob:2", second.GetInteractions())
	}
}

func TestGetLatestRecap(t *testing.T) {
	f := newRecapFixture(t)

	if _, err := f.svc.GetLatestRecap("alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	f.friendshipRepo.addFriendship("alice", "bob")
	generated, err := f.svc.GenerateRecap("alice", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("GenerateRecap: %v", err)
	}

	latest, err := f.svc.GetLatestRecap("alice")
	if err != nil {
		t.Fatalf("GetLatestRecap: %v", err)
	}
	if latest.ID != generated.ID {
		t.Errorf("latest = %s, want %s", latest.ID, generated.ID)
	}
}
