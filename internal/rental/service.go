package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/logger"
	"github.com/FleetLinkRent/FleetLinkRent/internal/user"
	"github.com/FleetLinkRent/FleetLinkRent/internal/vehicle"
)

// Service 租赁事务核心：租车/还车/询价的唯一入口，
// 也是车辆状态流转的唯一事实来源。
type Service struct {
	store    Store
	resolver *user.Resolver
	inv      *vehicle.Inventory
	log      logger.Logger
	locks    keyedMutex
}

func NewService(store Store, resolver *user.Resolver, inv *vehicle.Inventory, log logger.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		inv:      inv,
		log:      log,
	}
}

// Rent 处理租车：
//  1. 解析/创建租客
//  2. 复核车辆可租（内存投影做快速路径，存储层条件写入做权威判定）
//  3. 条件写入占车
//  4. 追加 RENT 流水
//  5. 同步内存投影
//
// 同一辆车上的并发 Rent/Return 通过每车互斥锁串行化；
// 跨进程并发由存储层的条件写入兜底。
// 第 4 步失败时回滚第 3 步；回滚也失败则报 ErrInconsistent 并单独记日志。
func (s *Service) Rent(ctx context.Context, vehicleID string, contact user.Contact, quotedTotalCents int64) (string, error) {
	if s == nil || s.store == nil {
		return "", fmt.Errorf("service not initialized")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return "", fmt.Errorf("%w: vehicle id required", ErrValidation)
	}
	if quotedTotalCents < 0 {
		return "", fmt.Errorf("%w: quoted total is negative", ErrValidation)
	}

	unlock := s.locks.lock(vehicleID)
	defer unlock()

	// 快速路径：投影里已经是 RENTED 就不用打存储层了。
	// 投影可能过期，所以只用它挡掉明显失败，不用它放行。
	if cached, ok := s.inv.Get(vehicleID); ok && !cached.Available {
		return "", fmt.Errorf("%w: vehicle %s already rented", ErrInvalidState, vehicleID)
	}

	v, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
		}
		return "", fmt.Errorf("%w: load vehicle: %v", ErrStoreFailure, err)
	}
	if !CanTransition(statusOf(v.Available), StatusRented) {
		return "", fmt.Errorf("%w: vehicle %s already rented", ErrInvalidState, vehicleID)
	}

	renterID, err := s.resolver.Resolve(ctx, contact)
	if err != nil {
		if errors.Is(err, user.ErrMissingField) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return "", fmt.Errorf("%w: resolve renter: %v", ErrStoreFailure, err)
	}

	// 权威判定：只有 available 的行才会被更新。
	if err := s.store.ClaimVehicle(ctx, vehicleID, renterID); err != nil {
		if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: claim vehicle: %v", ErrStoreFailure, err)
	}

	txn := &Transaction{
		UserID:      renterID,
		VehicleID:   vehicleID,
		AmountCents: quotedTotalCents,
		Kind:        TxKindRent,
	}
	if err := s.store.AppendTransaction(ctx, txn); err != nil {
		// 占车成功但流水落库失败：把车放回去，保持 available 与 renter 的锁步不变量。
		if relErr := s.store.ReleaseVehicle(ctx, vehicleID, renterID); relErr != nil {
			s.logInconsistency(vehicleID, renterID, err, relErr)
			return "", fmt.Errorf("%w: vehicle %s claimed but transaction and rollback both failed", ErrInconsistent, vehicleID)
		}
		return "", fmt.Errorf("%w: append rent transaction: %v", ErrStoreFailure, err)
	}

	v.Available = false
	v.CurrentRenterID = renterID
	s.inv.Apply(*v)

	if s.log != nil {
		s.log.WithFields(map[string]interface{}{
			"vehicle_id":     vehicleID,
			"renter_id":      renterID,
			"transaction_id": txn.ID,
		}).Info("vehicle rented")
	}
	return txn.ID, nil
}

// Return 处理还车。前置条件：车辆存在、当前是 RENTED、且由 renterID 租出。
// 还车流水金额恒为 0。
func (s *Service) Return(ctx context.Context, vehicleID, renterID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	vehicleID = strings.TrimSpace(vehicleID)
	renterID = strings.TrimSpace(renterID)
	if vehicleID == "" || renterID == "" {
		return fmt.Errorf("%w: vehicle id and renter id required", ErrValidation)
	}

	unlock := s.locks.lock(vehicleID)
	defer unlock()

	v, err := s.store.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
		}
		return fmt.Errorf("%w: load vehicle: %v", ErrStoreFailure, err)
	}
	if !CanTransition(statusOf(v.Available), StatusAvailable) {
		return fmt.Errorf("%w: vehicle %s is not rented", ErrInvalidState, vehicleID)
	}
	if v.CurrentRenterID != renterID {
		return fmt.Errorf("%w: vehicle %s is rented by another user", ErrInvalidState, vehicleID)
	}

	if err := s.store.ReleaseVehicle(ctx, vehicleID, renterID); err != nil {
		if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: release vehicle: %v", ErrStoreFailure, err)
	}

	txn := &Transaction{
		UserID:      renterID,
		VehicleID:   vehicleID,
		AmountCents: 0,
		Kind:        TxKindReturn,
	}
	if err := s.store.AppendTransaction(ctx, txn); err != nil {
		// 对称回滚：把车重新占回给原租客。
		if claimErr := s.store.ClaimVehicle(ctx, vehicleID, renterID); claimErr != nil {
			s.logInconsistency(vehicleID, renterID, err, claimErr)
			return fmt.Errorf("%w: vehicle %s released but transaction and rollback both failed", ErrInconsistent, vehicleID)
		}
		return fmt.Errorf("%w: append return transaction: %v", ErrStoreFailure, err)
	}

	v.Available = true
	v.CurrentRenterID = ""
	s.inv.Apply(*v)

	if s.log != nil {
		s.log.WithFields(map[string]interface{}{
			"vehicle_id": vehicleID,
			"renter_id":  renterID,
		}).Info("vehicle returned")
	}
	return nil
}

// TotalCost 按车辆当前日租金对租期询价。车辆不存在或日期区间非法时报错。
func (s *Service) TotalCost(ctx context.Context, vehicleID, startDate, endDate string) (int64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("service not initialized")
	}
	v, err := s.store.GetVehicle(ctx, strings.TrimSpace(vehicleID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
		}
		return 0, fmt.Errorf("%w: load vehicle: %v", ErrStoreFailure, err)
	}
	return Cost(v.DailyPriceCents, startDate, endDate)
}

func (s *Service) logInconsistency(vehicleID, renterID string, cause, rollbackErr error) {
	if s.log == nil {
		return
	}
	s.log.WithFields(map[string]interface{}{
		"fatal_inconsistency": true,
		"vehicle_id":          vehicleID,
		"renter_id":           renterID,
		"cause":               cause.Error(),
		"rollback_error":      rollbackErr.Error(),
	}).Error("vehicle state requires manual reconciliation")
}

// keyedMutex 按 key 提供互斥锁（每辆车一把）。
// 锁条目带引用计数，最后一个持有者释放时从表里移除，
// 表的大小只随“正在被操作的车辆数”走，不随历史车辆数累积。
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
