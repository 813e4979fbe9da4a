package service

import (
	"context"
	"errors"
	"time"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/casedesk/casedesk/internal/repository"
)

// memStore is an in-memory stand-in for the repository layer. It backs
// every store interface the services consume, plus the authorization
// engine's readers, so workflow tests can run against one shared state.
type memStore struct {
	users    map[int64]*model.User
	cases    map[int64]*model.Case
	grants   map[[2]int64]*model.AccessGrant
	requests map[int64]*model.AccessRequest
	nextID   int64

	// failGrantInsert simulates the grant write failing mid-approval; the
	// fake honors the same all-or-nothing contract as the real tx.
	failGrantInsert bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]*model.User{},
		cases:    map[int64]*model.Case{},
		grants:   map[[2]int64]*model.AccessGrant{},
		requests: map[int64]*model.AccessRequest{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addUser(role model.Role, active bool) *model.User {
	u := &model.User{ID: m.id(), Role: role, IsActive: active, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addCase(ownerID int64) *model.Case {
	c := &model.Case{ID: m.id(), OwnerID: ownerID, Status: model.CaseStatusOpen, CreatedAt: time.Now()}
	m.cases[c.ID] = c
	return c
}

// UserGetter / UserStore

func (m *memStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	return m.users[id], nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memStore) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) SetActive(_ context.Context, id int64, active bool) error {
	u := m.users[id]
	if u == nil {
		return errors.New("user not found")
	}
	u.IsActive = active
	return nil
}

// CaseExistsChecker + authz.CaseReader

func (m *memStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.cases[id]
	return ok, nil
}

func (m *memStore) OwnedBy(_ context.Context, caseID, ownerID int64) (bool, error) {
	c, ok := m.cases[caseID]
	return ok && c.OwnerID == ownerID, nil
}

func (m *memStore) AllIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for id := range m.cases {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) IDsOwnedBy(_ context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	for id, c := range m.cases {
		if c.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memStore) FilterExisting(_ context.Context, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if _, ok := m.cases[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) FilterOwnedBy(_ context.Context, ownerID int64, ids []int64) ([]int64, error) {
	var out []int64
	for _, id := range ids {
		if c, ok := m.cases[id]; ok && c.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

// GrantStore + authz.GrantReader

func (m *memStore) Insert(_ context.Context, caseID, lawyerID int64) (bool, error) {
	if m.failGrantInsert {
		return false, errors.New("grant insert failed")
	}
	key := [2]int64{caseID, lawyerID}
	if _, ok := m.grants[key]; ok {
		return false, nil
	}
	m.grants[key] = &model.AccessGrant{ID: m.id(), CaseID: caseID, LawyerID: lawyerID, GrantedAt: time.Now()}
	return true, nil
}

func (m *memStore) Delete(_ context.Context, caseID, lawyerID int64) (bool, error) {
	key := [2]int64{caseID, lawyerID}
	if _, ok := m.grants[key]; !ok {
		return false, nil
	}
	delete(m.grants, key)
	return true, nil
}

func (m *memStore) GrantExists(caseID, lawyerID int64) bool {
	_, ok := m.grants[[2]int64{caseID, lawyerID}]
	return ok
}

func (m *memStore) CaseIDsGrantedTo(_ context.Context, lawyerID int64) ([]int64, error) {
	var ids []int64
	for key := range m.grants {
		if key[1] == lawyerID {
			ids = append(ids, key[0])
		}
	}
	return ids, nil
}

func (m *memStore) FilterGrantedTo(_ context.Context, lawyerID int64, caseIDs []int64) ([]int64, error) {
	var out []int64
	for _, id := range caseIDs {
		if _, ok := m.grants[[2]int64{id, lawyerID}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *memStore) ListByCase(_ context.Context, caseID int64) ([]*model.AccessGrant, error) {
	var grants []*model.AccessGrant
	for key, g := range m.grants {
		if key[0] == caseID {
			grants = append(grants, g)
		}
	}
	return grants, nil
}

// grantAdapter exposes the grant side of memStore under the method names
// the grant store and the authz engine expect (Exists collides with the
// case reader).
type grantAdapter struct{ m *memStore }

func (a grantAdapter) Insert(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	return a.m.Insert(ctx, caseID, lawyerID)
}

func (a grantAdapter) Delete(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	return a.m.Delete(ctx, caseID, lawyerID)
}

func (a grantAdapter) Exists(_ context.Context, caseID, lawyerID int64) (bool, error) {
	return a.m.GrantExists(caseID, lawyerID), nil
}

func (a grantAdapter) ListByCase(ctx context.Context, caseID int64) ([]*model.AccessGrant, error) {
	return a.m.ListByCase(ctx, caseID)
}

func (a grantAdapter) CaseIDsGrantedTo(ctx context.Context, lawyerID int64) ([]int64, error) {
	return a.m.CaseIDsGrantedTo(ctx, lawyerID)
}

func (a grantAdapter) FilterGrantedTo(ctx context.Context, lawyerID int64, caseIDs []int64) ([]int64, error) {
	return a.m.FilterGrantedTo(ctx, lawyerID, caseIDs)
}

// RequestStore

func (m *memStore) CreateRequest(_ context.Context, req *model.AccessRequest) error {
	for _, existing := range m.requests {
		if existing.CaseID == req.CaseID && existing.LawyerID == req.LawyerID && existing.IsPending() {
			return repository.ErrDuplicate
		}
	}
	req.ID = m.id()
	req.RequestedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *memStore) GetRequestByID(_ context.Context, id int64) (*model.AccessRequest, error) {
	return m.requests[id], nil
}

func (m *memStore) HasPending(_ context.Context, caseID, lawyerID int64) (bool, error) {
	for _, req := range m.requests {
		if req.CaseID == caseID && req.LawyerID == lawyerID && req.IsPending() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Approve(ctx context.Context, id, reviewerID int64) error {
	req := m.requests[id]
	if req == nil || !req.IsPending() {
		return repository.ErrNotPending
	}
	if m.failGrantInsert {
		// Nothing mutated: status transition and grant insert are one unit.
		return errors.New("grant insert failed")
	}
	now := time.Now()
	req.Status = model.RequestStatusApproved
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	m.Insert(ctx, req.CaseID, req.LawyerID)
	return nil
}

func (m *memStore) Reject(_ context.Context, id, reviewerID int64) error {
	req := m.requests[id]
	if req == nil || !req.IsPending() {
		return repository.ErrNotPending
	}
	now := time.Now()
	req.Status = model.RequestStatusRejected
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	return nil
}

func (m *memStore) PendingByCase(_ context.Context, caseID int64) ([]*model.AccessRequest, error) {
	var out []*model.AccessRequest
	for _, req := range m.requests {
		if req.CaseID == caseID && req.IsPending() {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *memStore) ByLawyer(_ context.Context, lawyerID int64) ([]*model.AccessRequest, error) {
	var out []*model.AccessRequest
	for _, req := range m.requests {
		if req.LawyerID == lawyerID {
			out = append(out, req)
		}
	}
	return out, nil
}

// requestStoreAdapter renames the request methods onto the RequestStore
// interface (Create/GetByID collide with the user store).
type requestStoreAdapter struct{ m *memStore }

func (a requestStoreAdapter) Create(ctx context.Context, req *model.AccessRequest) error {
	return a.m.CreateRequest(ctx, req)
}

func (a requestStoreAdapter) GetByID(ctx context.Context, id int64) (*model.AccessRequest, error) {
	return a.m.GetRequestByID(ctx, id)
}

func (a requestStoreAdapter) HasPending(ctx context.Context, caseID, lawyerID int64) (bool, error) {
	return a.m.HasPending(ctx, caseID, lawyerID)
}

func (a requestStoreAdapter) Approve(ctx context.Context, id, reviewerID int64) error {
	return a.m.Approve(ctx, id, reviewerID)
}

func (a requestStoreAdapter) Reject(ctx context.Context, id, reviewerID int64) error {
	return a.m.Reject(ctx, id, reviewerID)
}

func (a requestStoreAdapter) PendingByCase(ctx context.Context, caseID int64) ([]*model.AccessRequest, error) {
	return a.m.PendingByCase(ctx, caseID)
}

func (a requestStoreAdapter) ByLawyer(ctx context.Context, lawyerID int64) ([]*model.AccessRequest, error) {
	return a.m.ByLawyer(ctx, lawyerID)
}
