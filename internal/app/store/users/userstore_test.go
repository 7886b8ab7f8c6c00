package userstore

import (
	"errors"
	"sync"
	"testing"

	"github.com/brunocaldas/portfoliohub/internal/domain/models"
	"github.com/brunocaldas/portfoliohub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		GitHubID:   "12345",
		Username:   "octocat",
		ProfileURL: "https://github.com/octocat",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID.IsZero() {
		t.Error("Create() should assign an ObjectID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	// Verify it can be looked up by GitHub ID
	found, err := store.GetByGitHubID(ctx, "12345")
	if err != nil {
		t.Fatalf("GetByGitHubID() error = %v", err)
	}
	if found.Username != "octocat" {
		t.Errorf("Username = %q, want %q", found.Username, "octocat")
	}
}

func TestStore_Create_MissingGitHubID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Username: "octocat"})
	if err == nil {
		t.Error("Create() without github_id should fail")
	}
}

func TestStore_Create_SanitizesMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		GitHubID: "777",
		Username: "<script>alert(1)</script>octocat",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.Username != "octocat" {
		t.Errorf("Username = %q, want markup stripped to %q", created.Username, "octocat")
	}
}

func TestStore_Create_DuplicateGitHubID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{GitHubID: "42", Username: "octocat"})
	if err != nil {
		t.Fatalf("Create() first call error = %v", err)
	}

	_, err = store.Create(ctx, models.User{GitHubID: "42", Username: "other"})
	if !errors.Is(err, ErrDuplicateGitHubID) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateGitHubID", err)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{GitHubID: "9", Username: "niner"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.GitHubID != "9" {
		t.Errorf("GitHubID = %q, want %q", found.GitHubID, "9")
	}
}

func TestStore_GetByGitHubID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByGitHubID(ctx, "no-such-id")
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByGitHubID() error = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_FindOrCreate_CreatesOnFirstSight(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, err := store.FindOrCreate(ctx, "42", "octocat", "https://github.com/octocat")
	if err != nil {
		t.Fatalf("FindOrCreate() error = %v", err)
	}
	if user.GitHubID != "42" {
		t.Errorf("GitHubID = %q, want %q", user.GitHubID, "42")
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_FindOrCreate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.FindOrCreate(ctx, "42", "octocat", "https://github.com/octocat")
	if err != nil {
		t.Fatalf("FindOrCreate() first call error = %v", err)
	}

	second, err := store.FindOrCreate(ctx, "42", "octocat", "https://github.com/octocat")
	if err != nil {
		t.Fatalf("FindOrCreate() second call error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("FindOrCreate() returned different users: %s vs %s", first.ID.Hex(), second.ID.Hex())
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1 after repeated FindOrCreate", count)
	}
}

func TestStore_FindOrCreate_ConcurrentSameIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	ids := make([]string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := store.FindOrCreate(ctx, "42", "octocat", "https://github.com/octocat")
			errs[i] = err
			if u != nil {
				ids[i] = u.ID.Hex()
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("FindOrCreate() caller %d error = %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got user %s, want %s", i, ids[i], ids[0])
		}
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want exactly 1 record after concurrent logins", count)
	}
}

func TestStore_FindOrCreate_DistinctIdentities(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.FindOrCreate(ctx, "1", "alice", "https://github.com/alice")
	if err != nil {
		t.Fatalf("FindOrCreate(alice) error = %v", err)
	}
	b, err := store.FindOrCreate(ctx, "2", "bob", "https://github.com/bob")
	if err != nil {
		t.Fatalf("FindOrCreate(bob) error = %v", err)
	}

	if a.ID == b.ID {
		t.Error("distinct GitHub identities should map to distinct records")
	}

	count, _ := store.Count(ctx)
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
