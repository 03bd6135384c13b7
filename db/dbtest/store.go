// Package dbtest provides in-memory implementations of the db repositories
// for service and handler tests.
package dbtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/db"
	"github.com/techagentng/ain/models"
)

// Store holds every table in memory. The repository accessors share it.
type Store struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*models.User
	deleted     map[uuid.UUID]bool
	authorities map[uuid.UUID]*models.Authority
	reports     map[uuid.UUID]*models.Report
	likes       map[uuid.UUID]*models.Like
	comments    map[uuid.UUID]*models.Comment
	attachments map[uuid.UUID]*models.Attachment
	last        time.Time
}

func NewStore() *Store {
	return &Store{
		users:       map[uuid.UUID]*models.User{},
		deleted:     map[uuid.UUID]bool{},
		authorities: map[uuid.UUID]*models.Authority{},
		reports:     map[uuid.UUID]*models.Report{},
		likes:       map[uuid.UUID]*models.Like{},
		comments:    map[uuid.UUID]*models.Comment{},
		attachments: map[uuid.UUID]*models.Attachment{},
	}
}

// stamp returns a strictly increasing timestamp so ordering by creation is stable.
func (s *Store) stamp() time.Time {
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}

// SeedAuthorities inserts the default authorities and returns them by name.
func (s *Store) SeedAuthorities() map[string]models.Authority {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := map[string]models.Authority{}
	for _, a := range db.DefaultAuthorities() {
		authority := a
		s.authorities[authority.ID] = &authority
		byName[authority.Name] = authority
	}
	return byName
}

func (s *Store) Users() db.UserRepository             { return &userRepo{s} }
func (s *Store) Authorities() db.AuthorityRepository  { return &authorityRepo{s} }
func (s *Store) Reports() db.ReportRepository         { return &reportRepo{s} }
func (s *Store) Likes() db.LikeRepository             { return &likeRepo{s} }
func (s *Store) Comments() db.CommentRepository       { return &commentRepo{s} }
func (s *Store) Attachments() db.AttachmentRepository { return &attachmentRepo{s} }

// CommentRow returns a comment even when soft deleted.
func (s *Store) CommentRow(id uuid.UUID) (models.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return models.Comment{}, false
	}
	return *c, true
}

func notFound(op string) error {
	return errors.Wrap(db.ErrNotFound, op)
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return errors.Wrap(db.ErrDuplicate, "create user")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.stamp()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) IsEmailExist(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) live(id uuid.UUID) (*models.User, bool) {
	u, ok := r.s.users[id]
	if !ok || r.s.deleted[id] {
		return nil, false
	}
	return u, true
}

func (r *userRepo) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return nil, notFound("find user by id")
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email == email && !r.s.deleted[id] {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("find user by email")
}

func (r *userRepo) FindUserByRefreshToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if r.s.deleted[id] || u.RefreshToken == nil || u.RefreshTokenExpiry == nil {
			continue
		}
		if *u.RefreshToken == token && u.RefreshTokenExpiry.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("find user by refresh token")
}

func (r *userRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return notFound("update user")
	}
	user.UpdatedAt = r.s.stamp()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) ListUsers(_ context.Context, search string, offset, limit int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []models.User
	needle := strings.ToLower(search)
	for id, u := range r.s.users {
		if r.s.deleted[id] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(u.Email), needle) &&
			!strings.Contains(strings.ToLower(u.DisplayName), needle) {
			continue
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, offset, limit), int64(len(users)), nil
}

func (r *userRepo) CountReportsByReporters(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[uuid.UUID]int64{}
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	for _, rep := range r.s.reports {
		if rep.ReporterID != nil && wanted[*rep.ReporterID] {
			counts[*rep.ReporterID]++
		}
	}
	return counts, nil
}

func (r *userRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return notFound("delete user")
	}
	u.ClearRefreshToken()
	r.s.deleted[id] = true
	return nil
}

func (r *userRepo) PurgeExpiredCredentials(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var purged int64
	for _, u := range r.s.users {
		if u.OtpExpiry != nil && u.OtpExpiry.Before(now) {
			u.ClearOTP()
			purged++
		}
		if u.RefreshTokenExpiry != nil && u.RefreshTokenExpiry.Before(now) {
			u.ClearRefreshToken()
			purged++
		}
	}
	return purged, nil
}

type authorityRepo struct{ s *Store }

func (r *authorityRepo) FindAuthorityByName(_ context.Context, name string) (*models.Authority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.authorities {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, notFound("find authority by name")
}

func (r *authorityRepo) FindAuthorityByID(_ context.Context, id uuid.UUID) (*models.Authority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.authorities[id]
	if !ok {
		return nil, notFound("find authority by id")
	}
	cp := *a
	return &cp, nil
}

func (r *authorityRepo) ListAuthorities(_ context.Context) ([]models.Authority, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Authority
	for _, a := range r.s.authorities {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
