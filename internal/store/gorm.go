// Package store 提供持久化层的两个实现：
// GormStore（MySQL，生产）和 MemoryStore（进程内，测试/本地开发）。
// 两者遵守同一套错误约定（见 rental.Store 的注释）。
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/FleetLinkRent/FleetLinkRent/internal/rental"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// GormStore 基于 GORM/MySQL 的存储实现。
// 需要 gorm.Config{TranslateError: true}，唯一索引冲突才能翻译成 ErrDuplicatedKey。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate 建表/补列。进程启动时调用一次。
func (s *GormStore) AutoMigrate() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store db is nil")
	}
	return s.db.AutoMigrate(&vehicle.Vehicle{}, &user.User{}, &rental.Transaction{})
}

func (s *GormStore) withCtx(ctx context.Context) *gorm.DB {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx)
}

func (s *GormStore) CreateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(v).Error
}

// UpdateVehicle 只写描述性列。租赁状态列（available/current_renter_id）
// 永远不在这里动——那两列只允许 Claim/Release 的条件写入变更，
// 整行覆盖会把并发租车的结果抹掉。
func (s *GormStore) UpdateVehicle(ctx context.Context, v *vehicle.Vehicle) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Model(&vehicle.Vehicle{}).
		Where("id = ?", v.ID).
		Select("make", "model", "year", "color", "capacity", "daily_price_cents", "type").
		Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL 对“值没变化”的 UPDATE 也报 0 行，回查区分是不是不存在。
		if _, err := s.GetVehicle(ctx, v.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteVehicle 只删未被租出的车：DELETE 带 available 条件，
// 未命中时再查一次以区分“不存在”和“正在被租”。
func (s *GormStore) DeleteVehicle(ctx context.Context, id string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Where("id = ? AND available = ?", id, true).Delete(&vehicle.Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := s.GetVehicle(ctx, id); err != nil {
		return err // 包含 ErrNotFound
	}
	return fmt.Errorf("%w: vehicle %s is currently rented", rental.ErrInvalidState, id)
}

func (s *GormStore) GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var v vehicle.Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s", rental.ErrNotFound, id)
		}
		return nil, err
	}
	return &v, nil
}

func (s *GormStore) ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var vs []vehicle.Vehicle
	if err := db.Order("created_at").Find(&vs).Error; err != nil {
		return nil, err
	}
	return vs, nil
}

// ClaimVehicle 条件占车：UPDATE 只命中 available 的行。
// RowsAffected == 0 时回查区分“不存在”和“已被租走”。
func (s *GormStore) ClaimVehicle(ctx context.Context, vehicleID, renterID string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Model(&vehicle.Vehicle{}).
		Where("id = ? AND available = ?", vehicleID, true).
		Updates(map[string]interface{}{"available": false, "current_renter_id": renterID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return err
	}
	return fmt.Errorf("%w: vehicle %s already rented", rental.ErrInvalidState, vehicleID)
}

// ReleaseVehicle 条件还车：只命中被 renterID 租出的行。
func (s *GormStore) ReleaseVehicle(ctx context.Context, vehicleID, renterID string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Model(&vehicle.Vehicle{}).
		Where("id = ? AND available = ? AND current_renter_id = ?", vehicleID, false, renterID).
		Updates(map[string]interface{}{"available": true, "current_renter_id": ""})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return err
	}
	return fmt.Errorf("%w: vehicle %s is not rented by user %s", rental.ErrInvalidState, vehicleID, renterID)
}

func (s *GormStore) CreateUser(ctx context.Context, u *user.User) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: contact key %s", user.ErrDuplicate, u.ContactKey)
		}
		return err
	}
	return nil
}

func (s *GormStore) UpdateUser(ctx context.Context, u *user.User) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	if err := db.Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: contact key %s", user.ErrDuplicate, u.ContactKey)
		}
		return err
	}
	return nil
}

func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	res := db.Where("id = ?", id).Delete(&user.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", rental.ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var u user.User
	if err := db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", rental.ErrNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]user.User, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var users []user.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) AppendTransaction(ctx context.Context, t *rental.Transaction) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(t).Error
}
