package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/logger"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// Admin 管理端用例：车辆和用户的增删改。
// 写入都是先落库再整体重建投影（维度集合只能靠 Reload 重算）。
type Admin struct {
	store    Store
	inv      *vehicle.Inventory
	resolver *user.Resolver
	log      logger.Logger
}

func NewAdmin(store Store, inv *vehicle.Inventory, resolver *user.Resolver, log logger.Logger) *Admin {
	return &Admin{store: store, inv: inv, resolver: resolver, log: log}
}

// VehicleInput 添加/修改车辆的入参。
type VehicleInput struct {
	Make            string
	Model           string
	Year            int
	Color           string
	Capacity        int
	DailyPriceCents int64
	Type            string
}

func (in VehicleInput) validate() error {
	if strings.TrimSpace(in.Make) == "" || strings.TrimSpace(in.Model) == "" {
		return fmt.Errorf("%w: make and model required", ErrValidation)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	if in.DailyPriceCents < 0 {
		return fmt.Errorf("%w: daily price is negative", ErrValidation)
	}
	return nil
}

// AddVehicle 新增车辆，初始状态恒为可租、无租客。返回分配的车辆 id。
func (a *Admin) AddVehicle(ctx context.Context, in VehicleInput) (string, error) {
	if a == nil || a.store == nil {
		return "", fmt.Errorf("admin not initialized")
	}
	if err := in.validate(); err != nil {
		return "", err
	}
	v := &vehicle.Vehicle{
		Make:            strings.TrimSpace(in.Make),
		Model:           strings.TrimSpace(in.Model),
		Year:            in.Year,
		Color:           strings.TrimSpace(in.Color),
		Capacity:        in.Capacity,
		DailyPriceCents: in.DailyPriceCents,
		Type:            strings.TrimSpace(in.Type),
		Available:       true,
		CurrentRenterID: "",
	}
	if err := a.store.CreateVehicle(ctx, v); err != nil {
		return "", fmt.Errorf("%w: create vehicle: %v", ErrStoreFailure, err)
	}
	a.reloadInventory(ctx)
	return v.ID, nil
}

// UpdateVehicle 修改车辆的描述属性。租赁状态（available/renter）不在这里动，
// 那是租赁核心的事；存储层的 UpdateVehicle 也只写描述性列，
// 所以读写之间插进来的租车不会被覆盖。
func (a *Admin) UpdateVehicle(ctx context.Context, id string, in VehicleInput) error {
	if a == nil || a.store == nil {
		return fmt.Errorf("admin not initialized")
	}
	if err := in.validate(); err != nil {
		return err
	}
	v, err := a.store.GetVehicle(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: load vehicle: %v", ErrStoreFailure, err)
	}
	v.Make = strings.TrimSpace(in.Make)
	v.Model = strings.TrimSpace(in.Model)
	v.Year = in.Year
	v.Color = strings.TrimSpace(in.Color)
	v.Capacity = in.Capacity
	v.DailyPriceCents = in.DailyPriceCents
	v.Type = strings.TrimSpace(in.Type)
	if err := a.store.UpdateVehicle(ctx, v); err != nil {
		return fmt.Errorf("%w: update vehicle: %v", ErrStoreFailure, err)
	}
	a.reloadInventory(ctx)
	return nil
}

// DeleteVehicle 删除车辆。正在被租的车拒绝删除且记录保持不变。
func (a *Admin) DeleteVehicle(ctx context.Context, id string) error {
	if a == nil || a.store == nil {
		return fmt.Errorf("admin not initialized")
	}
	if err := a.store.DeleteVehicle(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) {
			return err
		}
		return fmt.Errorf("%w: delete vehicle: %v", ErrStoreFailure, err)
	}
	a.reloadInventory(ctx)
	return nil
}

// AddUser 管理端添加用户。走 Resolver 的 find-or-create，
// 同一联系四元组不会加出第二条记录。
func (a *Admin) AddUser(ctx context.Context, c user.Contact) (string, error) {
	if a == nil || a.resolver == nil {
		return "", fmt.Errorf("admin not initialized")
	}
	id, err := a.resolver.Resolve(ctx, c)
	if err != nil {
		if errors.Is(err, user.ErrMissingField) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return "", fmt.Errorf("%w: add user: %v", ErrStoreFailure, err)
	}
	return id, nil
}

// ModifyUser 修改用户联系方式，并重建 Resolver 的缓存。
func (a *Admin) ModifyUser(ctx context.Context, id string, c user.Contact) error {
	if a == nil || a.store == nil {
		return fmt.Errorf("admin not initialized")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	u, err := a.store.GetUser(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: load user: %v", ErrStoreFailure, err)
	}
	u.FirstName = strings.TrimSpace(c.FirstName)
	u.LastName = strings.TrimSpace(c.LastName)
	u.Email = strings.TrimSpace(c.Email)
	u.Phone = strings.TrimSpace(c.Phone)
	u.ContactKey = c.Key()
	if err := a.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return fmt.Errorf("%w: contact already belongs to another user", ErrValidation)
		}
		return fmt.Errorf("%w: update user: %v", ErrStoreFailure, err)
	}
	a.reloadResolver(ctx)
	return nil
}

// DeleteUser 删除用户并重建 Resolver 的缓存。
func (a *Admin) DeleteUser(ctx context.Context, id string) error {
	if a == nil || a.store == nil {
		return fmt.Errorf("admin not initialized")
	}
	if err := a.store.DeleteUser(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: delete user: %v", ErrStoreFailure, err)
	}
	a.reloadResolver(ctx)
	return nil
}

func (a *Admin) reloadInventory(ctx context.Context) {
	if a.inv == nil {
		return
	}
	if err := a.inv.Reload(ctx); err != nil && a.log != nil {
		a.log.Warnf("failed to reload inventory after admin write: %v", err)
	}
}

func (a *Admin) reloadResolver(ctx context.Context) {
	if a.resolver == nil {
		return
	}
	if err := a.resolver.Reload(ctx); err != nil && a.log != nil {
		a.log.Warnf("failed to reload user cache after admin write: %v", err)
	}
}
