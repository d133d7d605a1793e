package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adboard/internal/domain/entity"
	"adboard/pkg/errors"
)

// In-memory repositories for exercising use cases without Firestore.

type memConversationRepo struct {
	mu       sync.Mutex
	convs    map[string]*entity.Conversation
	messages map[string]map[string]*entity.Message
	nextID   int

	failCreateMessage  bool
	failSetLastMessage bool
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		convs:    make(map[string]*entity.Conversation),
		messages: make(map[string]map[string]*entity.Message),
	}
}

func (r *memConversationRepo) Upsert(ctx context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.convs[conv.ID]; ok {
		existing.Users = conv.Users
		existing.AdID = conv.AdID
		return nil
	}

	stored := *conv
	stored.CreatedAt = time.Now()
	r.convs[conv.ID] = &stored
	return nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conv
	return &copied, nil
}

func (r *memConversationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Conversation
	for _, conv := range r.convs {
		if conv.HasParticipant(userID) {
			copied := *conv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memConversationRepo) SetLastMessage(ctx context.Context, conv *entity.Conversation) error {
	if r.failSetLastMessage {
		return errors.Internal("metadata write failed", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.convs[conv.ID]
	if !ok {
		stored = &entity.Conversation{ID: conv.ID, CreatedAt: time.Now()}
		r.convs[conv.ID] = stored
	}
	stored.Users = conv.Users
	stored.AdID = conv.AdID
	stored.LastText = conv.LastText
	stored.LastSender = conv.LastSender
	stored.LastUnread = true
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memConversationRepo) ClearUnread(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.convs[id]; ok {
		conv.LastUnread = false
	}
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.convs, id)
	return nil
}

func (r *memConversationRepo) CreateMessage(ctx context.Context, conversationID string, msg *entity.Message) error {
	if r.failCreateMessage {
		return errors.Internal("message write failed", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	msg.ID = fmt.Sprintf("m%d", r.nextID)
	msg.CreatedAt = time.Now()

	if r.messages[conversationID] == nil {
		r.messages[conversationID] = make(map[string]*entity.Message)
	}
	r.messages[conversationID][msg.ID] = msg
	return nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Message
	for _, msg := range r.messages[conversationID] {
		out = append(out, msg)
	}
	return out, int64(len(out)), nil
}

func (r *memConversationRepo) ListMessageIDs(ctx context.Context, conversationID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id := range r.messages[conversationID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memConversationRepo) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages[conversationID], messageID)
	return nil
}

func (r *memConversationRepo) messageCount(conversationID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[conversationID])
}

func (r *memConversationRepo) has(conversationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.convs[conversationID]
	return ok
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }

func (r *memUserRepo) SetOnline(ctx context.Context, id string, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.Online = online
	}
	return nil
}

func (r *memUserRepo) SetPhoto(ctx context.Context, id, photoURL, photoPath string) error {
	return nil
}

func (r *memUserRepo) SetInterests(ctx context.Context, id string, interests []string) error {
	return nil
}

func (r *memUserRepo) SetRole(ctx context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[id]; ok {
		user.Role = role
	}
	return nil
}

func (r *memUserRepo) ListByRole(ctx context.Context, role string, limit int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.User
	for _, user := range r.users {
		if user.Role == role && (limit <= 0 || len(out) < limit) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memAdRepo struct {
	mu      sync.Mutex
	ads     map[string]*entity.Ad
	pending map[string]*entity.Ad
	nextID  int
}

func newMemAdRepo(ads ...*entity.Ad) *memAdRepo {
	r := &memAdRepo{
		ads:     make(map[string]*entity.Ad),
		pending: make(map[string]*entity.Ad),
	}
	for _, ad := range ads {
		r.ads[ad.ID] = ad
	}
	return r
}

func (r *memAdRepo) Create(ctx context.Context, ad *entity.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ad.ID == "" {
		r.nextID++
		ad.ID = fmt.Sprintf("ad%d", r.nextID)
	}
	r.ads[ad.ID] = ad
	return nil
}

func (r *memAdRepo) GetByID(ctx context.Context, id string) (*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad, ok := r.ads[id]
	if !ok {
		return nil, errors.NotFound("Ad", nil)
	}
	return ad, nil
}

func (r *memAdRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Ad
	for _, id := range ids {
		if ad, ok := r.ads[id]; ok {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *memAdRepo) List(ctx context.Context) ([]*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Ad
	for _, ad := range r.ads {
		out = append(out, ad)
	}
	return out, nil
}

func (r *memAdRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Ad
	for _, ad := range r.ads {
		if ad.PostedBy == userID {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *memAdRepo) ListPublishedSince(ctx context.Context, since time.Time) ([]*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Ad
	for _, ad := range r.ads {
		if ad.PublishedAt.After(since) {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *memAdRepo) SetSold(ctx context.Context, id string, sold bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ad, ok := r.ads[id]; ok {
		ad.IsSold = sold
	}
	return nil
}

func (r *memAdRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ads, id)
	return nil
}

func (r *memAdRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ads)), nil
}

func (r *memAdRepo) CreatePending(ctx context.Context, ad *entity.Ad) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	ad.ID = fmt.Sprintf("pending%d", r.nextID)
	r.pending[ad.ID] = ad
	return ad.ID, nil
}

func (r *memAdRepo) GetPending(ctx context.Context, id string) (*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ad, ok := r.pending[id]
	if !ok {
		return nil, errors.NotFound("Pending ad", nil)
	}
	return ad, nil
}

func (r *memAdRepo) ListPending(ctx context.Context) ([]*entity.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Ad
	for _, ad := range r.pending {
		out = append(out, ad)
	}
	return out, nil
}

func (r *memAdRepo) DeletePending(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	return nil
}

type memFavoriteRepo struct {
	mu    sync.Mutex
	users map[string]map[string]bool // adID -> userID set
}

func newMemFavoriteRepo() *memFavoriteRepo {
	return &memFavoriteRepo{users: make(map[string]map[string]bool)}
}

func (r *memFavoriteRepo) EnsureIndex(ctx context.Context, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users[adID] == nil {
		r.users[adID] = make(map[string]bool)
	}
	return nil
}

func (r *memFavoriteRepo) Add(ctx context.Context, adID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users[adID] == nil {
		r.users[adID] = make(map[string]bool)
	}
	r.users[adID][userID] = true
	return nil
}

func (r *memFavoriteRepo) Remove(ctx context.Context, adID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users[adID], userID)
	return nil
}

func (r *memFavoriteRepo) IsFavorite(ctx context.Context, adID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[adID][userID], nil
}

func (r *memFavoriteRepo) ListAdIDsByUser(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for adID, users := range r.users {
		if users[userID] {
			ids = append(ids, adID)
		}
	}
	return ids, nil
}

func (r *memFavoriteRepo) Delete(ctx context.Context, adID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, adID)
	return nil
}
