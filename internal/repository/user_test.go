package repository

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/db"
	"github.com/tingleshq/tingles/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A second connection would open a second empty in-memory database
	database.SetMaxOpenConns(1)
	t.Cleanup(func() {
		closeErr := database.Close()
		if closeErr != nil {
			t.Errorf("failed to close test database: %v", closeErr)
		}
	})

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return database
}

func strptr(s string) *string { return &s }

func seedUser(t *testing.T, repo UserRepository, user *model.User) *model.User {
	t.Helper()
	err := repo.Create(user)
	if err != nil {
		t.Fatalf("seeding user %q: %v", user.Email, err)
	}
	return user
}

func TestUserRepositoryCreateAndLookups(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := seedUser(t, repo, &model.User{
		Email:        "  Priya@Example.COM ",
		PasswordHash: strptr("hash"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	})

	if user.ID == "" {
		t.Fatal("expected Create to assign an id")
	}

	byID, err := repo.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if byID.Email != "priya@example.com" {
		t.Errorf("email = %q, want normalized priya@example.com", byID.Email)
	}

	// Lookup folds case too
	byEmail, err := repo.ByEmail("PRIYA@example.com")
	if err != nil {
		t.Fatalf("ByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ByEmail resolved %q, want %q", byEmail.ID, user.ID)
	}

	_, err = repo.ByEmail("missing@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ByEmail missing: err = %v, want ErrUserNotFound", err)
	}
	_, err = repo.ByID("missing-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ByID missing: err = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	seedUser(t, repo, &model.User{
		Email:        "taken@example.com",
		PasswordHash: strptr("hash"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	})

	err := repo.Create(&model.User{
		Email:        "Taken@Example.com",
		AuthProvider: model.ProviderGoogle,
		OAuthID:      strptr("sub-1"),
		Role:         model.RoleUser,
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestUserRepositoryProviderSubject(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	google := seedUser(t, repo, &model.User{
		Email:        "g@example.com",
		AuthProvider: model.ProviderGoogle,
		OAuthID:      strptr("shared-subject"),
		Role:         model.RoleUser,
	})
	// The same subject string under another provider is a different identity
	seedUser(t, repo, &model.User{
		Email:        "l@example.com",
		AuthProvider: model.ProviderLinkedIn,
		OAuthID:      strptr("shared-subject"),
		Role:         model.RoleUser,
	})

	found, err := repo.ByProviderSubject(model.ProviderGoogle, "shared-subject")
	if err != nil {
		t.Fatalf("ByProviderSubject: %v", err)
	}
	if found.ID != google.ID {
		t.Errorf("resolved %q, want the google record %q", found.ID, google.ID)
	}

	_, err = repo.ByProviderSubject(model.ProviderGoogle, "unknown")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepositoryDuplicateSubject(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	seedUser(t, repo, &model.User{
		Email:        "one@example.com",
		AuthProvider: model.ProviderGoogle,
		OAuthID:      strptr("sub-dup"),
		Role:         model.RoleUser,
	})

	err := repo.Create(&model.User{
		Email:        "two@example.com",
		AuthProvider: model.ProviderGoogle,
		OAuthID:      strptr("sub-dup"),
		Role:         model.RoleUser,
	})
	if !errors.Is(err, ErrDuplicateSubject) {
		t.Fatalf("err = %v, want ErrDuplicateSubject", err)
	}
}

func TestUserRepositoryMultipleNullSubjects(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	// The partial unique index must not collapse password accounts, which
	// all carry a NULL oauth_id.
	seedUser(t, repo, &model.User{
		Email:        "a@example.com",
		PasswordHash: strptr("h1"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	})
	seedUser(t, repo, &model.User{
		Email:        "b@example.com",
		PasswordHash: strptr("h2"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	})
}

func TestUserRepositoryLinkUpdate(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := seedUser(t, repo, &model.User{
		Email:        "link@example.com",
		PasswordHash: strptr("hash"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleFounder,
	})

	user.AuthProvider = model.ProviderLinkedIn
	user.OAuthID = strptr("ln-42")
	user.PasswordHash = nil
	err := repo.Update(user)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.ByID(user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.AuthProvider != model.ProviderLinkedIn {
		t.Errorf("provider = %q, want linkedin", got.AuthProvider)
	}
	if got.PasswordHash != nil {
		t.Error("expected password hash to be cleared")
	}
	if got.Role != model.RoleFounder {
		t.Errorf("role = %q, want founder untouched by Update", got.Role)
	}
}

func TestUserRepositoryUpdateRole(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := seedUser(t, repo, &model.User{
		Email:        "promote@example.com",
		PasswordHash: strptr("hash"),
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	})

	err := repo.UpdateRole(user.ID, model.RoleFounder)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}

	got, _ := repo.ByID(user.ID)
	if got.Role != model.RoleFounder {
		t.Errorf("role = %q, want founder", got.Role)
	}

	err = repo.UpdateRole("missing-id", model.RoleUser)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}

	err = repo.UpdateRole(user.ID, model.Role("superadmin"))
	if err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestUserRepositoryRejectsUnknownEnums(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	err := repo.Create(&model.User{
		Email:        "bad@example.com",
		AuthProvider: model.AuthProvider("facebook"),
		Role:         model.RoleUser,
	})
	if err == nil {
		t.Fatal("expected unknown provider to be rejected")
	}

	err = repo.Create(&model.User{
		Email:        "bad2@example.com",
		AuthProvider: model.ProviderEmail,
		Role:         model.Role("root"),
	})
	if err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}
