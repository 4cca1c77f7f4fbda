package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/logger"
)

var (
	// ErrMissingField 联系方式缺少必填字段。
	ErrMissingField = errors.New("missing contact field")

	// ErrDuplicate 存储层唯一索引冲突：同一联系四元组已存在。
	// 存储实现负责把底层驱动的 duplicate-key 错误翻译成这个哨兵。
	ErrDuplicate = errors.New("duplicate user")
)

// Store 是 Resolver 需要的最小存储能力。
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context) ([]User, error)
}

// Resolver 负责“查找或创建”用户：
// 先查进程内缓存（key 为归一化联系键），未命中则写库并回填缓存。
// 缓存可能落后于并发写入，真正的去重由存储层的唯一索引兜底；
// 创建撞上唯一索引时重新加载缓存并返回已存在的那条记录。
type Resolver struct {
	store Store
	log   logger.Logger

	mu    sync.Mutex
	cache map[string]string // contact key -> user id
}

func NewResolver(store Store, log logger.Logger) *Resolver {
	return &Resolver{
		store: store,
		log:   log,
		cache: make(map[string]string),
	}
}

// Reload 从存储层重建整个缓存。管理端改完用户之后也会调用。
func (r *Resolver) Reload(ctx context.Context) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("resolver store is nil")
	}
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("reload users: %w", err)
	}
	cache := make(map[string]string, len(users))
	for _, u := range users {
		key := u.ContactKey
		if key == "" {
			key = Contact{u.FirstName, u.LastName, u.Email, u.Phone}.Key()
		}
		cache[key] = u.ID
	}
	r.mu.Lock()
	r.cache = cache
	r.mu.Unlock()
	return nil
}

// Resolve 把联系四元组解析成用户 id，没有就创建。
// 对同一四元组（大小写不敏感）重复调用返回同一个 id，最多创建一条记录。
func (r *Resolver) Resolve(ctx context.Context, c Contact) (string, error) {
	if r == nil || r.store == nil {
		return "", fmt.Errorf("resolver store is nil")
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	key := c.Key()

	// 整个 find-or-create 在锁内完成，避免同进程内两次并发创建。
	// 跨进程的并发由存储层唯一索引负责。
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	u := &User{
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		ContactKey: key,
	}
	err := r.store.CreateUser(ctx, u)
	if err == nil {
		r.cache[key] = u.ID
		return u.ID, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return "", fmt.Errorf("create user: %w", err)
	}

	// 别的写入方抢先创建了同一个用户：重读一遍，拿已存在的 id。
	if r.log != nil {
		r.log.WithField("contact_key", key).Info("user create hit duplicate, reloading")
	}
	users, listErr := r.store.ListUsers(ctx)
	if listErr != nil {
		return "", fmt.Errorf("reload after duplicate: %w", listErr)
	}
	for _, existing := range users {
		k := existing.ContactKey
		if k == "" {
			k = Contact{existing.FirstName, existing.LastName, existing.Email, existing.Phone}.Key()
		}
		r.cache[k] = existing.ID
	}
	if id, ok := r.cache[key]; ok {
		return id, nil
	}
	return "", fmt.Errorf("duplicate reported but user not found: %w", err)
}

// Invalidate 把某个联系键从缓存中移除（用户被管理端修改或删除后调用）。
func (r *Resolver) Invalidate(key string) {
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}
