package rental

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionKind 流水类型枚举（持久化为字符串）。
type TransactionKind string

const (
	TxKindRent   TransactionKind = "rent"   // 租车扣款
	TxKindReturn TransactionKind = "return" // 还车（金额恒为 0）
)

// Transaction 是 transactions 表的 GORM 模型。
// 流水是审计记录：只追加，创建后不允许修改或删除。
type Transaction struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Timestamp   time.Time       `gorm:"index;not null"`
	UserID      string          `gorm:"index;size:36;not null"`
	VehicleID   string          `gorm:"index;size:36;not null"`
	AmountCents int64           `gorm:"not null;default:0"` // 金额（单位：分）
	Kind        TransactionKind `gorm:"type:varchar(16);not null"`
}

// BeforeCreate 在入库时分配 id，保持“id 由存储层分配”的约定。
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	return nil
}
