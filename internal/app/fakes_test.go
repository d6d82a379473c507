package app

import (
	"context"
	"errors"
	"time"

	"github.com/arogyalabs/arogyabot/internal/model"
)

type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User), nextID: 1}
}

func (s *fakeUserStore) Create(user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByUsername(username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByID(id uint) (*model.User, error) {
	return s.users[id], nil
}

type fakeConversationStore struct {
	conversations map[uint]*model.Conversation
	nextID        uint
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: make(map[uint]*model.Conversation), nextID: 1}
}

func (s *fakeConversationStore) Create(conv *model.Conversation) error {
	conv.ID = s.nextID
	s.nextID++
	s.conversations[conv.ID] = conv
	return nil
}

func (s *fakeConversationStore) ListByUserID(userID uint) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range s.conversations {
		if c.UserID == userID && c.Channel == model.ChannelWeb {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeConversationStore) GetByIDAndUserID(conversationID, userID uint) (*model.Conversation, error) {
	c := s.conversations[conversationID]
	if c == nil || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (s *fakeConversationStore) DeleteByIDAndUserID(conversationID, userID uint) error {
	delete(s.conversations, conversationID)
	return nil
}

func (s *fakeConversationStore) FindOrCreateWhatsApp(peer, language string) (*model.Conversation, error) {
	for _, c := range s.conversations {
		if c.Channel == model.ChannelWhatsApp && c.Peer == peer {
			return c, nil
		}
	}
	conv := &model.Conversation{
		Channel:  model.ChannelWhatsApp,
		Peer:     peer,
		Title:    peer,
		Language: language,
	}
	if err := s.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

type fakeMessageStore struct {
	messages []model.Message
}

func (s *fakeMessageStore) ListByConversationID(conversationID uint, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMessageStore) ListRecentByConversationID(conversationID uint, n int) ([]model.Message, error) {
	all, _ := s.ListByConversationID(conversationID, 0)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (s *fakeMessageStore) DeleteByConversationID(conversationID uint) error {
	var kept []model.Message
	for _, m := range s.messages {
		if m.ConversationID != conversationID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

type fakePublisher struct {
	published []model.Message
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, msg model.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

type fakeDispatcher struct {
	jobs []model.ReplyJob
	err  error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, job model.ReplyJob) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

type fakeHistoryCache struct {
	histories map[uint][]model.Message
	dirty     map[uint]bool
	sets      int
}

func newFakeHistoryCache() *fakeHistoryCache {
	return &fakeHistoryCache{
		histories: make(map[uint][]model.Message),
		dirty:     make(map[uint]bool),
	}
}

func (c *fakeHistoryCache) GetHistory(ctx context.Context, conversationID uint) ([]model.Message, bool, error) {
	msgs, ok := c.histories[conversationID]
	return msgs, ok, nil
}

func (c *fakeHistoryCache) SetHistory(ctx context.Context, conversationID uint, messages []model.Message) error {
	c.histories[conversationID] = messages
	c.sets++
	return nil
}

func (c *fakeHistoryCache) DeleteHistory(ctx context.Context, conversationID uint) error {
	delete(c.histories, conversationID)
	return nil
}

func (c *fakeHistoryCache) MarkDirty(ctx context.Context, conversationID uint) error {
	c.dirty[conversationID] = true
	return nil
}

func (c *fakeHistoryCache) IsDirty(ctx context.Context, conversationID uint) (bool, error) {
	return c.dirty[conversationID], nil
}

type fakeEngine struct {
	answer  string
	sources []model.Source
	err     error
	delay   time.Duration

	questions []string
	languages []string
	histories [][]model.Message
}

func (e *fakeEngine) Answer(ctx context.Context, question, lang string, history []model.Message) (string, []model.Source, error) {
	e.questions = append(e.questions, question)
	e.languages = append(e.languages, lang)
	e.histories = append(e.histories, history)
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return "", nil, errors.New("generation cancelled")
		}
	}
	return e.answer, e.sources, e.err
}
