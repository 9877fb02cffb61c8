package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"go-inventory-api/internal/domain"
)

// in-memory repositories implementing the domain interfaces

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Update(u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) SoftDelete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.ResetToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*domain.ResetToken)}
}

func (r *memTokenRepo) Create(t *domain.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tokens[t.ID] = &cp
	return nil
}

func (r *memTokenRepo) FindByHash(hash string, now time.Time) (*domain.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == hash && now.Before(t.ExpiresAt) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTokenRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *memTokenRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
	return nil
}

func (r *memTokenRepo) expireAll(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tok := range r.tokens {
		tok.ExpiresAt = t
	}
}

func (r *memTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	seq      int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*domain.Product)}
}

func (r *memProductRepo) Create(p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	// distinct creation times so ordering is observable
	p.CreatedAt = time.Unix(int64(r.seq), 0)
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) FindByID(id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProductRepo) ListByUser(userID string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memProductRepo) Update(p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

// fakeMailer records sends; can be told to fail
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	Subject, Body, To, From string
}

func (f *fakeMailer) Send(subject, body, to, from string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{subject, body, to, from})
	return nil
}

func (f *fakeMailer) last() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// memCacheStore backs cache.Cache in tests
type memCacheStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCacheStore() *memCacheStore {
	return &memCacheStore{data: make(map[string][]byte)}
}

func (s *memCacheStore) Get(ctx context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (s *memCacheStore) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := value.([]byte); ok {
		s.data[key] = b
	}
	return redis.NewStatusResult("OK", nil)
}

func (s *memCacheStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// fakeUploader returns a deterministic URL; can be told to fail
type fakeUploader struct {
	fail  bool
	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("upstream 500")
	}
	return "https://media.example.com/inventory/" + filename, nil
}
