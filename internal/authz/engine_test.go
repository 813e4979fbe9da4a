package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/casedesk/casedesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCases implements CaseReader over an ownership map.
type fakeCases struct {
	owners map[int64]int64 // caseID -> ownerID
	err    error
}

func (f *fakeCases) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.owners[id]
	return ok, nil
}

func (f *fakeCases) OwnedBy(_ context.Context, caseID, ownerID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.owners[caseID] == ownerID, nil
}

func (f *fakeCases) AllIDs(_ context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id := range f.owners {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeCases) IDsOwnedBy(_ context.Context, ownerID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id, owner := range f.owners {
		if owner == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCases) FilterExisting(_ context.Context, ids []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []int64
	for _, id := range ids {
		if _, ok := f.owners[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeCases) FilterOwnedBy(_ context.Context, ownerID int64, ids []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []int64
	for _, id := range ids {
		if f.owners[id] == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeGrants implements GrantReader over a (case, lawyer) set.
type fakeGrants struct {
	pairs map[[2]int64]bool
	err   error
}

func (f *fakeGrants) Exists(_ context.Context, caseID, lawyerID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.pairs[[2]int64{caseID, lawyerID}], nil
}

func (f *fakeGrants) CaseIDsGrantedTo(_ context.Context, lawyerID int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for pair := range f.pairs {
		if pair[1] == lawyerID {
			ids = append(ids, pair[0])
		}
	}
	return ids, nil
}

func (f *fakeGrants) FilterGrantedTo(_ context.Context, lawyerID int64, caseIDs []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []int64
	for _, id := range caseIDs {
		if f.pairs[[2]int64{id, lawyerID}] {
			out = append(out, id)
		}
	}
	return out, nil
}

func principal(id int64, role model.Role) model.Principal {
	return model.Principal{ID: id, Role: role, IsActive: true}
}

func newTestEngine(cases *fakeCases, grants *fakeGrants) *Engine {
	return NewEngine(cases, grants, zap.NewNop())
}

func TestCanAccess_RoleMatrix(t *testing.T) {
	// Case 10 owned by client 1; lawyer 2 holds a grant on case 10 only.
	cases := &fakeCases{owners: map[int64]int64{10: 1, 11: 3}}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{10, 2}: true}}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	tests := []struct {
		name   string
		p      model.Principal
		caseID int64
		want   bool
	}{
		{"client owns case", principal(1, model.RoleClient), 10, true},
		{"client foreign case", principal(1, model.RoleClient), 11, false},
		{"client nonexistent case", principal(1, model.RoleClient), 99, false},
		{"lawyer with grant", principal(2, model.RoleLawyer), 10, true},
		{"lawyer without grant", principal(2, model.RoleLawyer), 11, false},
		{"lawyer nonexistent case", principal(2, model.RoleLawyer), 99, false},
		{"admin existing case", principal(5, model.RoleAdmin), 10, true},
		{"admin other existing case", principal(5, model.RoleAdmin), 11, true},
		{"admin nonexistent case", principal(5, model.RoleAdmin), 99, false},
		{"unknown role", principal(1, model.Role("AUDITOR")), 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.CanAccess(ctx, tt.p, tt.caseID))
		})
	}
}

func TestCanAccess_InactivePrincipalDenied(t *testing.T) {
	cases := &fakeCases{owners: map[int64]int64{10: 1}}
	engine := newTestEngine(cases, &fakeGrants{pairs: map[[2]int64]bool{}})

	p := model.Principal{ID: 1, Role: model.RoleClient, IsActive: false}
	assert.False(t, engine.CanAccess(context.Background(), p, 10))
}

func TestIsOwner_RoleMatrix(t *testing.T) {
	cases := &fakeCases{owners: map[int64]int64{10: 1}}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{10, 2}: true}}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	tests := []struct {
		name   string
		p      model.Principal
		caseID int64
		want   bool
	}{
		{"owner client", principal(1, model.RoleClient), 10, true},
		{"foreign client", principal(3, model.RoleClient), 10, false},
		{"lawyer never owns, even with grant", principal(2, model.RoleLawyer), 10, false},
		{"admin existing case", principal(5, model.RoleAdmin), 10, true},
		{"admin nonexistent case", principal(5, model.RoleAdmin), 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsOwner(ctx, tt.p, tt.caseID))
		})
	}
}

func TestCanAccess_StoreErrorFailsSecure(t *testing.T) {
	boom := errors.New("connection refused")
	cases := &fakeCases{owners: map[int64]int64{10: 1}, err: boom}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{10, 2}: true}, err: boom}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	// Every role is denied on a store failure, indistinguishably from a
	// genuine denial.
	assert.False(t, engine.CanAccess(ctx, principal(1, model.RoleClient), 10))
	assert.False(t, engine.CanAccess(ctx, principal(2, model.RoleLawyer), 10))
	assert.False(t, engine.CanAccess(ctx, principal(5, model.RoleAdmin), 10))
	assert.False(t, engine.IsOwner(ctx, principal(1, model.RoleClient), 10))
	assert.False(t, engine.IsOwner(ctx, principal(5, model.RoleAdmin), 10))
	assert.Empty(t, engine.AccessibleCaseIDs(ctx, principal(1, model.RoleClient)))
	assert.Empty(t, engine.FilterAccessible(ctx, principal(1, model.RoleClient), []int64{10}))
}

func TestAccessibleCaseIDs(t *testing.T) {
	cases := &fakeCases{owners: map[int64]int64{10: 1, 11: 1, 12: 3}}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{12, 2}: true}}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	client := engine.AccessibleCaseIDs(ctx, principal(1, model.RoleClient))
	assert.Equal(t, map[int64]struct{}{10: {}, 11: {}}, client)

	lawyer := engine.AccessibleCaseIDs(ctx, principal(2, model.RoleLawyer))
	assert.Equal(t, map[int64]struct{}{12: {}}, lawyer)

	admin := engine.AccessibleCaseIDs(ctx, principal(5, model.RoleAdmin))
	assert.Len(t, admin, 3)

	unknown := engine.AccessibleCaseIDs(ctx, principal(1, model.Role("AUDITOR")))
	assert.Empty(t, unknown)
}

func TestFilterAccessible_SubsetAndIdempotent(t *testing.T) {
	cases := &fakeCases{owners: map[int64]int64{10: 1, 11: 1, 12: 3}}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{12, 2}: true}}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	input := []int64{10, 11, 12, 99}

	for _, p := range []model.Principal{
		principal(1, model.RoleClient),
		principal(2, model.RoleLawyer),
		principal(5, model.RoleAdmin),
	} {
		filtered := engine.FilterAccessible(ctx, p, input)

		// Result is a subset of the input.
		inputSet := map[int64]bool{}
		for _, id := range input {
			inputSet[id] = true
		}
		for _, id := range filtered {
			assert.True(t, inputSet[id], "id %d not in input for role %s", id, p.Role)
		}

		// Equivalent to per-id CanAccess.
		filteredSet := map[int64]bool{}
		for _, id := range filtered {
			filteredSet[id] = true
		}
		for _, id := range input {
			assert.Equal(t, engine.CanAccess(ctx, p, id), filteredSet[id],
				"mismatch for role %s id %d", p.Role, id)
		}

		// Filtering again changes nothing.
		again := engine.FilterAccessible(ctx, p, filtered)
		assert.ElementsMatch(t, filtered, again)
	}
}

func TestFilterAccessible_PerRoleResults(t *testing.T) {
	cases := &fakeCases{owners: map[int64]int64{10: 1, 11: 1, 12: 3}}
	grants := &fakeGrants{pairs: map[[2]int64]bool{{12, 2}: true}}
	engine := newTestEngine(cases, grants)
	ctx := context.Background()

	input := []int64{10, 11, 12, 99}

	require.ElementsMatch(t, []int64{10, 11}, engine.FilterAccessible(ctx, principal(1, model.RoleClient), input))
	require.ElementsMatch(t, []int64{12}, engine.FilterAccessible(ctx, principal(2, model.RoleLawyer), input))
	require.ElementsMatch(t, []int64{10, 11, 12}, engine.FilterAccessible(ctx, principal(5, model.RoleAdmin), input))
	require.Empty(t, engine.FilterAccessible(ctx, principal(9, model.Role("AUDITOR")), input))
}
