package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type storedUser struct {
	user domain.User
	hash string
}

type stubUserRepo struct {
	rows     map[int64]*storedUser
	nextID   int64
	err      error // if set, every call returns this error
	touchErr error
	touched  []int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{rows: make(map[int64]*storedUser)}
}

func cloneUser(u domain.User) *domain.User {
	return &u
}

func (r *stubUserRepo) FindByCredentials(_ context.Context, username, passwordHash string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.user.Username == username && row.hash == passwordHash {
			return cloneUser(row.user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(row.user), nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id int64) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.touched = append(r.touched, id)
	if row, ok := r.rows[id]; ok {
		now := time.Now().UTC()
		row.user.LastLoginAt = &now
	}
	return nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, cloneUser(row.user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User, passwordHash string, createdBy *int64) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	for _, row := range r.rows {
		if row.user.Username == user.Username {
			return 0, domain.ErrUserExists
		}
	}
	r.nextID++
	u := *user
	u.ID = r.nextID
	u.CreatedBy = createdBy
	now := time.Now().UTC()
	u.CreatedAt = &now
	r.rows[u.ID] = &storedUser{user: u, hash: passwordHash}
	return u.ID, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, displayName string, email *string, role domain.Role, passwordHash *string) error {
	if r.err != nil {
		return r.err
	}
	row, ok := r.rows[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	row.user.DisplayName = displayName
	row.user.Email = email
	row.user.Role = role
	if passwordHash != nil {
		row.hash = *passwordHash
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	delete(r.rows, id)
	return nil
}

func (r *stubUserRepo) SetBlocked(_ context.Context, id int64, blocked bool) error {
	if r.err != nil {
		return r.err
	}
	if row, ok := r.rows[id]; ok {
		row.user.IsBlocked = blocked
	}
	return nil
}

// seed inserts a user directly and returns it.
func (r *stubUserRepo) seed(username string, role domain.Role, password string) *domain.User {
	id, _ := r.Insert(context.Background(), &domain.User{Username: username, DisplayName: username, Role: role}, HashPassword(password), nil)
	return cloneUser(r.rows[id].user)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	repo         *stubUserRepo
	svc          *UserService
	superAdmin   *domain.User
	admin        *domain.User
	conventional *domain.User
}

func newFixture() *fixture {
	repo := newStubUserRepo()
	return &fixture{
		repo:         repo,
		svc:          NewUserService(repo, discardLogger),
		superAdmin:   repo.seed("root", domain.RoleSuperAdmin, "rootpass"),
		admin:        repo.seed("boss", domain.RoleAdmin, "bosspass"),
		conventional: repo.seed("carl", domain.RoleConventional, "carlpass"),
	}
}

// ---------------------------------------------------------------------------
// Create / Authenticate
// ---------------------------------------------------------------------------

func TestUserService_SelfRegistration(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	id, err := svc.Create(context.Background(), nil, &domain.User{
		Username:    "ana",
		DisplayName: "Ana",
		Role:        domain.RoleSuperAdmin, // ignored for self-registration
	}, "secret1")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored := repo.rows[id]
	if stored.user.Role != domain.RoleConventional {
		t.Errorf("expected conventional role, got %v", stored.user.Role)
	}
	if stored.user.CreatedBy != nil {
		t.Errorf("expected nil created_by, got %d", *stored.user.CreatedBy)
	}
	if stored.hash != HashPassword("secret1") {
		t.Errorf("expected stored digest of the password")
	}

	got, err := svc.Authenticate(context.Background(), "ana", "secret1")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != id || got.Username != "ana" {
		t.Errorf("unexpected user: %+v", got)
	}

	if _, err := svc.Authenticate(context.Background(), "ana", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_Create_RequiresPassword(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.superAdmin, &domain.User{Username: "x", DisplayName: "x", Role: domain.RoleConventional}, "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserService_Create_RecordsCreator(t *testing.T) {
	f := newFixture()
	id, err := f.svc.Create(context.Background(), f.superAdmin, &domain.User{Username: "newadmin", DisplayName: "New", Role: domain.RoleAdmin}, "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := f.repo.rows[id].user
	if stored.CreatedBy == nil || *stored.CreatedBy != f.superAdmin.ID {
		t.Errorf("expected created_by %d, got %v", f.superAdmin.ID, stored.CreatedBy)
	}
	if stored.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %v", stored.Role)
	}
}

func TestUserService_Create_AdminCannotAssignAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.admin, &domain.User{Username: "x", DisplayName: "x", Role: domain.RoleAdmin}, "secret1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Create_ConventionalForbidden(t *testing.T) {
	f := newFixture()
	before := len(f.repo.rows)

	_, err := f.svc.Create(context.Background(), f.conventional, &domain.User{Username: "sneaky", DisplayName: "x", Role: domain.RoleConventional}, "secret1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.repo.rows) != before {
		t.Fatalf("no user should be stored, have %d rows", len(f.repo.rows))
	}
}

func TestUserService_Create_DuplicateIsPersistenceFailure(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), nil, &domain.User{Username: "carl", DisplayName: "Carl"}, "secret1")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %T", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestUserService_List_AdminSeesOnlyConventional(t *testing.T) {
	f := newFixture()
	f.repo.seed("zed", domain.RoleConventional, "zedpass")
	f.repo.seed("other-admin", domain.RoleAdmin, "x")

	users, err := f.svc.List(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.Role != domain.RoleConventional {
			t.Errorf("admin listing leaked %s with role %v", u.Username, u.Role)
		}
	}
}

func TestUserService_List_SuperAdminSeesAll(t *testing.T) {
	f := newFixture()
	users, err := f.svc.List(context.Background(), f.superAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Username != "boss" {
		t.Errorf("expected listing ordered by username, got %s first", users[0].Username)
	}
}

func TestUserService_List_ConventionalForbidden(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.List(context.Background(), f.conventional); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.List(context.Background(), nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for nil actor, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserService_Update_KeepsPasswordWhenEmpty(t *testing.T) {
	f := newFixture()
	before := f.repo.rows[f.conventional.ID].hash
	email := "carl@example.com"

	err := f.svc.Update(context.Background(), f.admin, &domain.User{
		ID: f.conventional.ID, DisplayName: "Carl C.", Email: &email, Role: domain.RoleConventional,
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := f.repo.rows[f.conventional.ID]
	if row.hash != before {
		t.Error("expected password digest to be unchanged")
	}
	if row.user.DisplayName != "Carl C." || row.user.Email == nil || *row.user.Email != email {
		t.Errorf("expected fields updated, got %+v", row.user)
	}
	if _, err := f.svc.Authenticate(context.Background(), "carl", "carlpass"); err != nil {
		t.Errorf("old password should still work: %v", err)
	}
}

func TestUserService_Update_ReplacesPassword(t *testing.T) {
	f := newFixture()
	err := f.svc.Update(context.Background(), f.superAdmin, &domain.User{
		ID: f.conventional.ID, DisplayName: "Carl", Role: domain.RoleConventional,
	}, "newpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Authenticate(context.Background(), "carl", "carlpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password must fail, got %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), "carl", "newpass"); err != nil {
		t.Errorf("new password must succeed, got %v", err)
	}
}

func TestUserService_Update_Forbidden(t *testing.T) {
	f := newFixture()
	cases := []struct {
		name   string
		actor  *domain.User
		target *domain.User
	}{
		{"admin edits super admin", f.admin, &domain.User{ID: f.superAdmin.ID, DisplayName: "x", Role: domain.RoleSuperAdmin}},
		{"admin promotes conventional", f.admin, &domain.User{ID: f.conventional.ID, DisplayName: "x", Role: domain.RoleAdmin}},
		{"self edit", f.superAdmin, &domain.User{ID: f.superAdmin.ID, DisplayName: "x", Role: domain.RoleSuperAdmin}},
		{"conventional edits anyone", f.conventional, &domain.User{ID: f.admin.ID, DisplayName: "x", Role: domain.RoleConventional}},
		{"nil actor", nil, &domain.User{ID: f.conventional.ID, DisplayName: "x", Role: domain.RoleConventional}},
	}

	for _, tc := range cases {
		if err := f.svc.Update(context.Background(), tc.actor, tc.target, ""); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", tc.name, err)
		}
		if f.repo.rows[tc.target.ID].user.DisplayName == "x" {
			t.Errorf("%s: forbidden update was applied", tc.name)
		}
	}
}

func TestUserService_Update_MissingTarget(t *testing.T) {
	f := newFixture()
	err := f.svc.Update(context.Background(), f.superAdmin, &domain.User{ID: 999, DisplayName: "x", Role: domain.RoleConventional}, "")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete / SetBlocked
// ---------------------------------------------------------------------------

func TestUserService_Delete(t *testing.T) {
	f := newFixture()
	if err := f.svc.Delete(context.Background(), f.admin, f.superAdmin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), f.admin, f.conventional.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.rows[f.conventional.ID]; ok {
		t.Error("expected user to be removed")
	}
}

func TestUserService_SetBlocked_AuthenticateStillReturnsUser(t *testing.T) {
	f := newFixture()
	if err := f.svc.SetBlocked(context.Background(), f.superAdmin, f.conventional.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := f.svc.Authenticate(context.Background(), "carl", "carlpass")
	if err != nil {
		t.Fatalf("blocked users still authenticate at the service level, got %v", err)
	}
	if !u.IsBlocked {
		t.Error("expected IsBlocked=true")
	}

	if err := f.svc.SetBlocked(context.Background(), f.superAdmin, f.conventional.ID, false); err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	if f.repo.rows[f.conventional.ID].user.IsBlocked {
		t.Error("expected user to be unblocked")
	}
}

func TestUserService_SetBlocked_SelfForbidden(t *testing.T) {
	f := newFixture()
	if err := f.svc.SetBlocked(context.Background(), f.admin, f.admin.ID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Failure policy
// ---------------------------------------------------------------------------

func TestUserService_StoreErrorsPropagate(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("connection refused")

	checks := map[string]error{}
	_, checks["list"] = f.svc.List(context.Background(), f.superAdmin)
	_, checks["create"] = f.svc.Create(context.Background(), nil, &domain.User{Username: "n", DisplayName: "n"}, "secret1")
	checks["update"] = f.svc.Update(context.Background(), f.superAdmin, &domain.User{ID: f.admin.ID, Role: domain.RoleAdmin}, "")
	checks["delete"] = f.svc.Delete(context.Background(), f.superAdmin, f.admin.ID)
	checks["block"] = f.svc.SetBlocked(context.Background(), f.superAdmin, f.admin.ID, true)
	_, checks["authenticate"] = f.svc.Authenticate(context.Background(), "root", "rootpass")

	for op, err := range checks {
		var pe *domain.PersistenceError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected PersistenceError, got %v", op, err)
			continue
		}
		if pe.Err.Error() != "connection refused" {
			t.Errorf("%s: expected underlying message to be kept, got %q", op, pe.Err)
		}
	}
}
