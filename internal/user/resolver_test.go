package user_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/FleetLinkRent/FleetLinkRent/internal/store"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
)

func TestContactKeyCaseInsensitive(t *testing.T) {
	a := user.Contact{FirstName: "Alice", LastName: "Smith", Email: "Alice@Example.com", Phone: " 555-0100 "}
	b := user.Contact{FirstName: "alice", LastName: "SMITH", Email: "alice@example.com", Phone: "555-0100"}
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q and %q", a.Key(), b.Key())
	}
	if a.Key() != "alice|smith|alice@example.com|555-0100" {
		t.Fatalf("unexpected key %q", a.Key())
	}
}

func TestContactValidate(t *testing.T) {
	ok := user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range []user.Contact{
		{LastName: "Smith", Email: "a@b.c", Phone: "1"},
		{FirstName: "Alice", Email: "a@b.c", Phone: "1"},
		{FirstName: "Alice", LastName: "Smith", Phone: "1"},
		{FirstName: "Alice", LastName: "Smith", Email: "a@b.c", Phone: "   "},
	} {
		if err := c.Validate(); !errors.Is(err, user.ErrMissingField) {
			t.Fatalf("expected ErrMissingField for %+v, got %v", c, err)
		}
	}
}

func TestResolveFindOrCreate(t *testing.T) {
	st := store.NewMemoryStore()
	r := user.NewResolver(st, nil)
	ctx := context.Background()

	c := user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"}
	id1, err := r.Resolve(ctx, c)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id1 == "" {
		t.Fatalf("expected non-empty user id")
	}

	// 同一四元组（大小写无关）解析到同一个 id，库里只有一条记录。
	c2 := user.Contact{FirstName: "ALICE", LastName: "smith", Email: "Alice@Example.com", Phone: "555-0100"}
	id2, err := r.Resolve(ctx, c2)
	if err != nil {
		t.Fatalf("Resolve again: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %s and %s", id1, id2)
	}
	users, _ := st.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user record, got %d", len(users))
	}

	// 不同四元组是另一个人。
	id3, err := r.Resolve(ctx, user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@other.com", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("Resolve other: %v", err)
	}
	if id3 == id1 {
		t.Fatalf("different contact must resolve to a different user")
	}
}

func TestResolveRejectsIncompleteContact(t *testing.T) {
	r := user.NewResolver(store.NewMemoryStore(), nil)
	_, err := r.Resolve(context.Background(), user.Contact{FirstName: "Alice"})
	if !errors.Is(err, user.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestResolveConcurrentSameContact(t *testing.T) {
	st := store.NewMemoryStore()
	r := user.NewResolver(st, nil)
	ctx := context.Background()
	c := user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"}

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.Resolve(ctx, c)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Resolve %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("expected one id for all callers, got %s and %s", ids[0], ids[i])
		}
	}
	users, _ := st.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user record, got %d", len(users))
	}
}

// duplicateOnceStore 模拟别的写入方抢先创建：首次 CreateUser 先把记录
// 写进底层存储，再对调用方报唯一索引冲突。
type duplicateOnceStore struct {
	*store.MemoryStore
	raced bool
}

func (s *duplicateOnceStore) CreateUser(ctx context.Context, u *user.User) error {
	if !s.raced {
		s.raced = true
		rival := *u
		if err := s.MemoryStore.CreateUser(ctx, &rival); err != nil {
			return err
		}
		return fmt.Errorf("%w: contact key %s", user.ErrDuplicate, u.ContactKey)
	}
	return s.MemoryStore.CreateUser(ctx, u)
}

func TestResolveRecoversFromDuplicate(t *testing.T) {
	st := &duplicateOnceStore{MemoryStore: store.NewMemoryStore()}
	r := user.NewResolver(st, nil)
	ctx := context.Background()

	c := user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"}
	id, err := r.Resolve(ctx, c)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	users, _ := st.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user record, got %d", len(users))
	}
	if users[0].ID != id {
		t.Fatalf("expected resolver to return the existing id %s, got %s", users[0].ID, id)
	}
}

func TestResolverReloadAndInvalidate(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	// 预先入库一个用户，Reload 之后不经 CreateUser 就能命中。
	u := &user.User{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"}
	u.ContactKey = user.Contact{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone}.Key()
	if err := st.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	r := user.NewResolver(st, nil)
	if err := r.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	id, err := r.Resolve(ctx, user.Contact{FirstName: "alice", LastName: "smith", Email: "alice@example.com", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != u.ID {
		t.Fatalf("expected cached id %s, got %s", u.ID, id)
	}

	r.Invalidate(u.ContactKey)
	// 失效后会尝试重新创建，这次撞唯一索引再回读，仍应拿到原 id。
	id2, err := r.Resolve(ctx, user.Contact{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("Resolve after invalidate: %v", err)
	}
	if id2 != u.ID {
		t.Fatalf("expected existing id %s, got %s", u.ID, id2)
	}
}
