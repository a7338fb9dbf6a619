package service

import (
	"fmt"
	"time"

	"socialnet/internal/model"

	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the storage semantics the real
// repositories provide, including gorm.ErrRecordNotFound on misses, so the
// services under test see the same error surface.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, id := range ids {
		repo.users[id] = &model.User{ID: id, Username: "user-" + id, Email: id + "@example.com"}
	}
	return repo
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByIDs(ids []string) ([]model.User, error) {
	var users []model.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) SearchUsers(keyword string, limit, offset int) ([]model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(userID string) error { return nil }

type fakeFriendshipRepo struct {
	requests []*model.FriendRequest
	edges    map[string]bool
	nextID   int

	// createRequestErr simulates an insert failing under a concurrent
	// writer, e.g. a unique index violation
	createRequestErr error
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{edges: make(map[string]bool)}
}

func pairKey(a, b string) string {
	a, b = model.NormalizePair(a, b)
	return a + "|" + b
}

func (r *fakeFriendshipRepo) addFriendship(a, b string) {
	r.edges[pairKey(a, b)] = true
}

func (r *fakeFriendshipRepo) CreateRequest(request *model.FriendRequest) error {
	if r.createRequestErr != nil {
		return r.createRequestErr
	}
	// Mirrors the partial unique index on the pending pair
	for _, req := range r.requests {
		if req.Status == model.FriendRequestStatusPending &&
			pairKey(req.FromID, req.ToID) == pairKey(request.FromID, request.ToID) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	if request.ID == "" {
		request.ID = fmt.Sprintf("req-%d", r.nextID)
	}
	request.CreatedAt = time.Now()
	r.requests = append(r.requests, request)
	return nil
}

func (r *fakeFriendshipRepo) FindRequestByID(id string) (*model.FriendRequest, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) FindPendingRequest(fromID, toID string) (*model.FriendRequest, error) {
	for _, req := range r.requests {
		if req.FromID == fromID && req.ToID == toID && req.Status == model.FriendRequestStatusPending {
			return req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) FindPendingBetween(userID1, userID2 string) (*model.FriendRequest, error) {
	if req, err := r.FindPendingRequest(userID1, userID2); err == nil {
		return req, nil
	}
	return r.FindPendingRequest(userID2, userID1)
}

func (r *fakeFriendshipRepo) FindPendingByUserID(userID string) ([]*model.FriendRequest, error) {
	var pending []*model.FriendRequest
	for _, req := range r.requests {
		if req.Status == model.FriendRequestStatusPending && (req.FromID == userID || req.ToID == userID) {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

func (r *fakeFriendshipRepo) DeletePendingRequest(fromID, toID string) error {
	for i, req := range r.requests {
		if req.FromID == fromID && req.ToID == toID && req.Status == model.FriendRequestStatusPending {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeFriendshipRepo) AcceptRequest(fromID, toID string) (*model.FriendRequest, error) {
	req, err := r.FindPendingRequest(fromID, toID)
	if err != nil {
		return nil, err
	}
	req.Status = model.FriendRequestStatusAccepted
	r.addFriendship(fromID, toID)
	return req, nil
}

func (r *fakeFriendshipRepo) RejectRequest(fromID, toID string) (*model.FriendRequest, error) {
	req, err := r.FindPendingRequest(fromID, toID)
	if err != nil {
		return nil, err
	}
	req.Status = model.FriendRequestStatusRejected
	return req, nil
}

func (r *fakeFriendshipRepo) RemoveFriendship(userID1, userID2 string) error {
	key := pairKey(userID1, userID2)
	if !r.edges[key] {
		return gorm.ErrRecordNotFound
	}
	delete(r.edges, key)
	for i, req := range r.requests {
		if req.Status != model.FriendRequestStatusAccepted {
			continue
		}
		if (req.FromID == userID1 && req.ToID == userID2) || (req.FromID == userID2 && req.ToID == userID1) {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeFriendshipRepo) AreFriends(userID1, userID2 string) (bool, error) {
	return r.edges[pairKey(userID1, userID2)], nil
}

func (r *fakeFriendshipRepo) FindFriendIDs(userID string) ([]string, error) {
	var ids []string
	for key := range r.edges {
		var a, b string
		for i := 0; i < len(key); i++ {
			if key[i] == '|' {
				a, b = key[:i], key[i+1:]
				break
			}
		}
		if a == userID {
			ids = append(ids, b)
		} else if b == userID {
			ids = append(ids, a)
		}
	}
	return ids, nil
}

type fakePostRepo struct {
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (r *fakePostRepo) Create(post *model.Post) error {
	if post.ID == "" {
		post.ID = fmt.Sprintf("post-%d", len(r.posts)+1)
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) FindByID(id string) (*model.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (r *fakePostRepo) FindByUserID(userID string, limit, offset int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	for _, post := range r.posts {
		if post.UserID == userID {
			posts = append(posts, post)
		}
	}
	return posts, int64(len(posts)), nil
}

func (r *fakePostRepo) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	for _, post := range r.posts {
		if post.UserID == userID && !post.CreatedAt.Before(start) && post.CreatedAt.Before(end) {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) Update(post *model.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Delete(id string) error {
	if _, ok := r.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.Comment)}
}

func (r *fakeCommentRepo) Create(comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = fmt.Sprintf("comment-%d", len(r.comments)+1)
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) FindByID(id string) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (r *fakeCommentRepo) FindByTarget(targetType, targetID string, limit, offset int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	for _, comment := range r.comments {
		if comment.TargetType == targetType && comment.TargetID == targetID {
			comments = append(comments, comment)
		}
	}
	return comments, int64(len(comments)), nil
}

func (r *fakeCommentRepo) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Comment, error) {
	var comments []*model.Comment
	for _, comment := range r.comments {
		if comment.UserID == userID && !comment.CreatedAt.Before(start) && comment.CreatedAt.Before(end) {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) Update(comment *model.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(id string) error {
	if _, ok := r.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByTarget(targetType, targetID string) (int64, error) {
	_, count, _ := r.FindByTarget(targetType, targetID, 0, 0)
	return count, nil
}

type fakeReactionRepo struct {
	reactions map[string]*model.Reaction
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[string]*model.Reaction)}
}

func (r *fakeReactionRepo) Create(reaction *model.Reaction) error {
	if reaction.ID == "" {
		reaction.ID = fmt.Sprintf("reaction-%d", len(r.reactions)+1)
	}
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now()
	}
	r.reactions[reaction.ID] = reaction
	return nil
}

func (r *fakeReactionRepo) FindByID(id string) (*model.Reaction, error) {
	reaction, ok := r.reactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reaction, nil
}

func (r *fakeReactionRepo) FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error) {
	for _, reaction := range r.reactions {
		if reaction.UserID == userID && reaction.TargetType == targetType && reaction.TargetID == targetID {
			return reaction, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReactionRepo) FindByTarget(targetType, targetID string) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	for _, reaction := range r.reactions {
		if reaction.TargetType == targetType && reaction.TargetID == targetID {
			reactions = append(reactions, reaction)
		}
	}
	return reactions, nil
}

func (r *fakeReactionRepo) FindByAuthorInWindow(userID string, start, end time.Time) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	for _, reaction := range r.reactions {
		if reaction.UserID == userID && !reaction.CreatedAt.Before(start) && reaction.CreatedAt.Before(end) {
			reactions = append(reactions, reaction)
		}
	}
	return reactions, nil
}

func (r *fakeReactionRepo) Update(reaction *model.Reaction) error {
	r.reactions[reaction.ID] = reaction
	return nil
}

func (r *fakeReactionRepo) Delete(id string) error {
	if _, ok := r.reactions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.reactions, id)
	return nil
}

func (r *fakeReactionRepo) CountByTarget(targetType, targetID string) (int64, error) {
	reactions, _ := r.FindByTarget(targetType, targetID)
	return int64(len(reactions)), nil
}

type fakeRecapRepo struct {
	recaps []*model.Recap
}

func (r *fakeRecapRepo) Create(recap *model.Recap) error {
	if recap.ID == "" {
		recap.ID = fmt.Sprintf("recap-%d", len(r.recaps)+1)
	}
	recap.CreatedAt = time.Now()
	r.recaps = append(r.recaps, recap)
	return nil
}

func (r *fakeRecapRepo) FindByUserID(userID string, limit, offset int) ([]*model.Recap, int64, error) {
	var recaps []*model.Recap
	for i := len(r.recaps) - 1; i >= 0; i-- {
		if r.recaps[i].UserID == userID {
			recaps = append(recaps, r.recaps[i])
		}
	}
	total := int64(len(recaps))
	if offset < len(recaps) {
		recaps = recaps[offset:]
	} else {
		recaps = nil
	}
	if limit > 0 && len(recaps) > limit {
		recaps = recaps[:limit]
	}
	return recaps, total, nil
}

func (r *fakeRecapRepo) FindLatestByUserID(userID string) (*model.Recap, error) {
	for i := len(r.recaps) - 1; i >= 0; i-- {
		if r.recaps[i].UserID == userID {
			return r.recaps[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeModerationRepo struct {
	records []*model.ModerationRecord
}

func (r *fakeModerationRepo) Create(record *model.ModerationRecord) error {
	if record.ID == "" {
		record.ID = fmt.Sprintf("mod-%d", len(r.records)+1)
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeModerationRepo) FindByUserID(userID string, limit, offset int) ([]*model.ModerationRecord, error) {
	var records []*model.ModerationRecord
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	return records, nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (r *fakeProfileRepo) Create(profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = fmt.Sprintf("profile-%d", len(r.profiles)+1)
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) FindByUserID(userID string) (*model.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) Update(profile *model.Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) Delete(userID string) error {
	if _, ok := r.profiles[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.profiles, userID)
	return nil
}

type fakeScheduledMessageRepo struct {
	messages map[string]*model.ScheduledMessage
}

func newFakeScheduledMessageRepo() *fakeScheduledMessageRepo {
	return &fakeScheduledMessageRepo{messages: make(map[string]*model.ScheduledMessage)}
}

func (r *fakeScheduledMessageRepo) Create(message *model.ScheduledMessage) error {
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	}
	r.messages[message.ID] = message
	return nil
}

func (r *fakeScheduledMessageRepo) FindByID(id string) (*model.ScheduledMessage, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (r *fakeScheduledMessageRepo) FindBySenderID(userID string) ([]*model.ScheduledMessage, error) {
	var messages []*model.ScheduledMessage
	for _, message := range r.messages {
		if message.UserID == userID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func (r *fakeScheduledMessageRepo) FindDueByRecipient(userID string, now time.Time) ([]*model.ScheduledMessage, error) {
	var messages []*model.ScheduledMessage
	for _, message := range r.messages {
		if message.ScheduledTime.After(now) {
			continue
		}
		for _, recipientID := range message.GetRecipients() {
			if recipientID == userID {
				messages = append(messages, message)
				break
			}
		}
	}
	return messages, nil
}

func (r *fakeScheduledMessageRepo) FindUndeliveredDue(now time.Time, limit int) ([]*model.ScheduledMessage, error) {
	var messages []*model.ScheduledMessage
	for _, message := range r.messages {
		if !message.Delivered && !message.ScheduledTime.After(now) {
			messages = append(messages, message)
		}
		if limit > 0 && len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (r *fakeScheduledMessageRepo) MarkDelivered(id string) error {
	message, ok := r.messages[id]
	if !ok || message.Delivered {
		return gorm.ErrRecordNotFound
	}
	message.Delivered = true
	return nil
}

func (r *fakeScheduledMessageRepo) Delete(id string) error {
	if _, ok := r.messages[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.messages, id)
	return nil
}
