package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/platformteam/auth-service/internal/core/domain"
)

// newTestDB runs the real migrations and seed against an in-memory sqlite
// database, which gorm drives with the same statements the service uses in
// production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := SeedRoles(ctx, db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

func TestUserRepository_RolesSeeded(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	role, err := repo.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		t.Fatalf("find ROLE_USER: %v", err)
	}
	if role.Name != domain.RoleUser || role.ID == 0 {
		t.Fatalf("unexpected role: %+v", role)
	}

	if _, err := repo.FindRoleByName(ctx, "ROLE_NOBODY"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	role, err := repo.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	created, err := repo.Create(ctx, &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$fakehash",
		Roles:        []domain.Role{*role},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	found, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Email != "alice@example.com" || found.PasswordHash != "$2a$12$fakehash" {
		t.Fatalf("roundtrip mismatch: %+v", found)
	}
	if len(found.Roles) != 1 || found.Roles[0].Name != domain.RoleUser {
		t.Fatalf("roles not persisted: %+v", found.Roles)
	}

	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// The second insert hits the unique index on username; the translated
// duplicate-key error must come back as ErrUsernameTaken and leave the
// first row untouched. This is the same path the loser of two concurrent
// registrations takes.
func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	role, _ := repo.FindRoleByName(ctx, domain.RoleUser)

	if _, err := repo.Create(ctx, &domain.User{
		Username: "bob", PasswordHash: "hash-one", Roles: []domain.Role{*role},
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{
		Username: "bob", PasswordHash: "hash-two", Roles: []domain.Role{*role},
	}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	stored, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("find bob: %v", err)
	}
	if stored.PasswordHash != "hash-one" {
		t.Fatalf("first registration mutated by duplicate attempt: %+v", stored)
	}
}

func TestRefreshTokenRepository_ConsumeIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	record := domain.RefreshToken{Token: "opaque-token", UserID: 7}
	if err := repo.Save(ctx, &record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if record.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	consumed, err := repo.Consume(ctx, "opaque-token")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !consumed {
		t.Fatalf("expected first consume to remove the row")
	}

	consumed, err = repo.Consume(ctx, "opaque-token")
	if err != nil {
		t.Fatalf("second consume: %v", err)
	}
	if consumed {
		t.Fatalf("a consumed token must never consume again")
	}
}

func TestRefreshTokenRepository_ConcurrentSessionsAllowed(t *testing.T) {
	repo := NewRefreshTokenRepository(newTestDB(t))
	ctx := context.Background()

	// Two live sessions for the same user, each with its own record.
	if err := repo.Save(ctx, &domain.RefreshToken{Token: "session-a", UserID: 1}); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := repo.Save(ctx, &domain.RefreshToken{Token: "session-b", UserID: 1}); err != nil {
		t.Fatalf("save b: %v", err)
	}

	if err := repo.DeleteByToken(ctx, "session-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	consumed, err := repo.Consume(ctx, "session-b")
	if err != nil || !consumed {
		t.Fatalf("session-b should be unaffected: consumed=%v err=%v", consumed, err)
	}
}
