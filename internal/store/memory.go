package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// MemoryStore 进程内存储实现，语义对齐 GormStore：
// 条件占车/还车在一把锁内完成，联系键唯一索引同样生效。
// FailAppend / FailRelease / FailClaim 是测试用的故障注入开关。
type MemoryStore struct {
	mu       sync.Mutex
	vehicles map[string]vehicle.Vehicle
	users    map[string]user.User
	txns     []rental.Transaction

	// 故障注入：非 nil 时对应操作直接返回该错误。
	FailAppend  error
	FailRelease error
	FailClaim   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: make(map[string]vehicle.Vehicle),
		users:    make(map[string]user.User),
	}
}

func (s *MemoryStore) CreateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	s.vehicles[v.ID] = *v
	return nil
}

// UpdateVehicle 和 GormStore 同约定：只合并描述性字段，
// 租赁状态以存储里的当前值为准。
func (s *MemoryStore) UpdateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.vehicles[v.ID]
	if !ok {
		return fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, v.ID)
	}
	cur.Make = v.Make
	cur.Model = v.Model
	cur.Year = v.Year
	cur.Color = v.Color
	cur.Capacity = v.Capacity
	cur.DailyPriceCents = v.DailyPriceCents
	cur.Type = v.Type
	cur.UpdatedAt = time.Now()
	s.vehicles[v.ID] = cur
	return nil
}

func (s *MemoryStore) DeleteVehicle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, id)
	}
	if !v.Available {
		return fmt.Errorf("%w: vehicle %s is currently rented", rental.ErrInvalidState, id)
	}
	delete(s.vehicles, id)
	return nil
}

func (s *MemoryStore) GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, id)
	}
	out := v
	return &out, nil
}

func (s *MemoryStore) ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]vehicle.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (s *MemoryStore) ClaimVehicle(ctx context.Context, vehicleID, renterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailClaim != nil {
		return s.FailClaim
	}
	v, ok := s.vehicles[vehicleID]
	if !ok {
		return fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, vehicleID)
	}
	if !v.Available {
		return fmt.Errorf("%w: vehicle %s already rented", rental.ErrInvalidState, vehicleID)
	}
	v.Available = false
	v.CurrentRenterID = renterID
	v.UpdatedAt = time.Now()
	s.vehicles[vehicleID] = v
	return nil
}

func (s *MemoryStore) ReleaseVehicle(ctx context.Context, vehicleID, renterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRelease != nil {
		return s.FailRelease
	}
	v, ok := s.vehicles[vehicleID]
	if !ok {
		return fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, vehicleID)
	}
	if v.Available || v.CurrentRenterID != renterID {
		return fmt.Errorf("%w: vehicle %s is not rented by user %s", rental.ErrInvalidState, vehicleID, renterID)
	}
	v.Available = true
	v.CurrentRenterID = ""
	v.UpdatedAt = time.Now()
	s.vehicles[vehicleID] = v
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ContactKey == "" {
		u.ContactKey = user.Contact{
			FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone,
		}.Key()
	}
	for _, existing := range s.users {
		if existing.ContactKey == u.ContactKey {
			return fmt.Errorf("%w: contact key %s", user.ErrDuplicate, u.ContactKey)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("%w: user %s", rental.ErrNotFound, u.ID)
	}
	for id, existing := range s.users {
		if id != u.ID && existing.ContactKey == u.ContactKey {
			return fmt.Errorf("%w: contact key %s", user.ErrDuplicate, u.ContactKey)
		}
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("%w: user %s", rental.ErrNotFound, id)
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", rental.ErrNotFound, id)
	}
	out := u
	return &out, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *MemoryStore) AppendTransaction(ctx context.Context, t *rental.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		return s.FailAppend
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	s.txns = append(s.txns, *t)
	return nil
}

// Transactions 返回流水的拷贝（测试断言用）。
func (s *MemoryStore) Transactions() []rental.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rental.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}
