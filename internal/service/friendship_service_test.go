package service

import (
	"errors"
	"testing"

	"socialnet/internal/model"

	"gorm.io/gorm"
)

func newFriendshipFixture(t *testing.T, userIDs ...string) (FriendshipService, *fakeFriendshipRepo) {
	t.Helper()
	friendshipRepo := newFakeFriendshipRepo()
	userRepo := newFakeUserRepo(userIDs...)
	svc := NewFriendshipService(friendshipRepo, userRepo, nil)
	return svc, friendshipRepo
}

func TestSendRequest(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	request, err := svc.SendRequest("alice", "bob")
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if request.Status != model.FriendRequestStatusPending {
		t.Errorf("status = %q, want %q", request.Status, model.FriendRequestStatusPending)
	}
	if request.FromID != "alice" || request.ToID != "bob" {
		t.Errorf("request direction = %s->%s, want alice->bob", request.FromID, request.ToID)
	}
}

func TestSendRequestToSelf(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice")

	if _, err := svc.SendRequest("alice", "alice"); !errors.Is(err, ErrSelfRequest) {
		t.Errorf("err = %v, want ErrSelfRequest", err)
	}
}

func TestSendRequestUnknownUsers(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice")

	if _, err := svc.SendRequest("alice", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown receiver: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SendRequest("ghost", "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown sender: err = %v, want ErrNotFound", err)
	}
}

func TestSendRequestDuplicatePending(t *testing.T) {
	tests := []struct {
		name   string
		fromID string
		toID   string
	}{
		{"same direction", "alice", "bob"},
		{"reverse direction", "bob", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newFriendshipFixture(t, "alice", "bob")
			if _, err := svc.SendRequest("alice", "bob"); err != nil {
				t.Fatalf("first SendRequest: %v", err)
			}
			if _, err := svc.SendRequest(tt.fromID, tt.toID); !errors.Is(err, ErrDuplicateRequest) {
				t.Errorf("err = %v, want ErrDuplicateRequest", err)
			}
		})
	}
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	svc, repo := newFriendshipFixture(t, "alice", "bob")
	repo.addFriendship("alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); !errors.Is(err, ErrAlreadyFriends) {
		t.Errorf("err = %v, want ErrAlreadyFriends", err)
	}
	if _, err := svc.SendRequest("bob", "alice"); !errors.Is(err, ErrAlreadyFriends) {
		t.Errorf("reverse direction: err = %v, want ErrAlreadyFriends", err)
	}
}

func TestAcceptRequestCreatesSymmetricFriendship(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	accepted, err := svc.AcceptRequest("alice", "bob")
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if accepted.Status != model.FriendRequestStatusAccepted {
		t.Errorf("status = %q, want %q", accepted.Status, model.FriendRequestStatusAccepted)
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		friends, err := svc.AreFriends(pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreFriends(%s, %s): %v", pair[0], pair[1], err)
		}
		if !friends {
			t.Errorf("AreFriends(%s, %s) = false, want true", pair[0], pair[1])
		}
	}
}

func TestAcceptRequestMissing(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.AcceptRequest("alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAcceptRequestAfterRejectedHistory(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	first, err := svc.SendRequest("alice", "bob")
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.RejectRequest("alice", "bob"); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}

	second, err := svc.SendRequest("alice", "bob")
	if err != nil {
		t.Fatalf("resend: %v", err)
	}

	accepted, err := svc.AcceptRequest("alice", "bob")
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	// The pair carries a rejected history row; the returned record must be
	// the request that actually transitioned, not the historical one.
	if accepted.ID != second.ID {
		t.Errorf("accepted ID = %s, want %s (got historical row %s?)", accepted.ID, second.ID, first.ID)
	}
	if accepted.Status != model.FriendRequestStatusAccepted {
		t.Errorf("status = %q, want %q", accepted.Status, model.FriendRequestStatusAccepted)
	}
	if first.Status != model.FriendRequestStatusRejected {
		t.Errorf("historical request status = %q, want %q", first.Status, model.FriendRequestStatusRejected)
	}
}

func TestSendRequestConcurrentInsert(t *testing.T) {
	svc, repo := newFriendshipFixture(t, "alice", "bob")

	// A request from the other direction lands between the pending check
	// and the insert; the unique index rejects the second insert and the
	// violation surfaces as a duplicate-request error.
	repo.createRequestErr = gorm.ErrDuplicatedKey

	if _, err := svc.SendRequest("alice", "bob"); !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("err = %v, want ErrDuplicateRequest", err)
	}
}

func TestRejectThenResend(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.RejectRequest("alice", "bob"); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}

	friends, err := svc.AreFriends("alice", "bob")
	if err != nil {
		t.Fatalf("AreFriends: %v", err)
	}
	if friends {
		t.Error("rejected request must not create a friendship")
	}

	// A rejection does not block a new request in either direction
	if _, err := svc.SendRequest("bob", "alice"); err != nil {
		t.Errorf("resend after rejection: %v", err)
	}
}

func TestWithdrawRequest(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := svc.RemoveRequest("alice", "bob"); err != nil {
		t.Fatalf("RemoveRequest: %v", err)
	}

	// Withdrawn request leaves no pending state
	if _, err := svc.AcceptRequest("alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("accept after withdraw: err = %v, want ErrNotFound", err)
	}
	// And a fresh request may follow
	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Errorf("resend after withdraw: %v", err)
	}
}

func TestWithdrawRequestWrongDirection(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	// The receiver cannot withdraw the sender's request
	if err := svc.RemoveRequest("bob", "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveFriendIsMutual(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := svc.AcceptRequest("alice", "bob"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if err := svc.RemoveFriend("bob", "alice"); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		friends, _ := svc.AreFriends(pair[0], pair[1])
		if friends {
			t.Errorf("AreFriends(%s, %s) = true after removal", pair[0], pair[1])
		}
	}

	// Removal clears the history blocking a new request
	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Errorf("resend after removal: %v", err)
	}
}

func TestRemoveFriendNotFriends(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob")

	if err := svc.RemoveFriend("alice", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetRequestsIncludesBothDirections(t *testing.T) {
	svc, _ := newFriendshipFixture(t, "alice", "bob", "carol")

	if _, err := svc.SendRequest("alice", "bob"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := svc.SendRequest("carol", "alice"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	requests, err := svc.GetRequests("alice")
	if err != nil {
		t.Fatalf("GetRequests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("len(requests) = %d, want 2", len(requests))
	}

	var outgoing, incoming bool
	for _, req := range requests {
		if req.FromID == "alice" && req.ToID == "bob" {
			outgoing = true
		}
		if req.FromID == "carol" && req.ToID == "alice" {
			incoming = true
		}
	}
	if !outgoing || !incoming {
		t.Errorf("outgoing=%v incoming=%v, want both", outgoing, incoming)
	}

	// Resolved requests drop out of the pending view
	if _, err := svc.AcceptRequest("carol", "alice"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	requests, _ = svc.GetRequests("alice")
	if len(requests) != 1 {
		t.Errorf("len(requests) = %d after accept, want 1", len(requests))
	}
}

func TestGetFriends(t *testing.T) {
	svc, repo := newFriendshipFixture(t, "alice", "bob", "carol")
	repo.addFriendship("alice", "bob")
	repo.addFriendship("carol", "alice")

	friends, err := svc.GetFriends("alice")
	if err != nil {
		t.Fatalf("GetFriends: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("len(friends) = %d, want 2", len(friends))
	}

	ids, err := svc.GetFriendIDs("bob")
	if err != nil {
		t.Fatalf("GetFriendIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "alice" {
		t.Errorf("GetFriendIDs(bob) = %v, want [alice]", ids)
	}
}
