package vehicle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle 是 vehicles 表的 GORM 模型。
// 字段形态是收敛后的统一版本：容量只有一个 Capacity，
// 日租金用 int64 分，车辆类型用字符串标签。
type Vehicle struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Make            string    `gorm:"size:64;not null"`
	Model           string    `gorm:"size:64;not null"`
	Year            int       `gorm:"not null"`
	Color           string    `gorm:"size:32"`
	Capacity        int       `gorm:"not null"`           // 可坐人数
	DailyPriceCents int64     `gorm:"not null;default:0"` // 日租金（单位：分）
	Type            string    `gorm:"size:32;index"`      // car / truck / suv 等
	Available       bool      `gorm:"not null;index"`
	CurrentRenterID string    `gorm:"index;size:36"` // 可租时为空串
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate 在入库时分配 id，保持“id 由存储层分配”的约定。
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Consistent 校验核心不变量：available 为假当且仅当 current_renter_id 非空。
func (v Vehicle) Consistent() bool {
	return v.Available == (v.CurrentRenterID == "")
}
