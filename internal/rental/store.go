package rental

import (
	"context"

	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// Store 是核心层消费的持久化能力。进程启动时构造一次，
// 显式注入到各组件（没有隐式全局句柄），测试里用内存实现替换。
//
// 错误约定：
//   - 记录不存在时返回包装了 ErrNotFound 的错误
//   - 条件写入未命中（车已被租走 / 已被还掉 / 租客不匹配）返回包装了 ErrInvalidState 的错误
//   - 删除已租出的车辆返回包装了 ErrInvalidState 的错误，且不改动记录
//   - 其余底层失败原样返回，由调用方归入 ErrStoreFailure
type Store interface {
	// 车辆。UpdateVehicle 只写描述性列（make/model/year/color/capacity/
	// daily_price_cents/type）；available 和 current_renter_id 只能经
	// ClaimVehicle / ReleaseVehicle 变更，防止管理端写入覆盖并发租车的结果。
	CreateVehicle(ctx context.Context, v *vehicle.Vehicle) error
	UpdateVehicle(ctx context.Context, v *vehicle.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	GetVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error)
	ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error)

	// 租赁状态的条件写入：只有当前状态允许时才落库，
	// 这是防止并发双重出租的权威手段（内存索引只是快速路径）。
	ClaimVehicle(ctx context.Context, vehicleID, renterID string) error
	ReleaseVehicle(ctx context.Context, vehicleID, renterID string) error

	// 用户
	CreateUser(ctx context.Context, u *user.User) error
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)

	// 流水：只追加，不修改不删除。
	AppendTransaction(ctx context.Context, t *Transaction) error
}
