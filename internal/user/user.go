package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 是 users 表的 GORM 模型。
// ContactKey 是四元组（姓/名/邮箱/电话）小写拼接后的归一化键，
// 带唯一索引，在存储层兜底防止并发创建出重复用户。
type User struct {
	ID         string    `gorm:"primaryKey;size:36"`
	FirstName  string    `gorm:"size:64;not null"`
	LastName   string    `gorm:"size:64;not null"`
	Email      string    `gorm:"size:128;not null"`
	Phone      string    `gorm:"size:32;not null"`
	ContactKey string    `gorm:"uniqueIndex;size:255;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate 在入库时分配 id 并补齐归一化键。
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.ContactKey == "" {
		u.ContactKey = Contact{u.FirstName, u.LastName, u.Email, u.Phone}.Key()
	}
	return nil
}

// Contact 租客的联系方式四元组，是查找/去重用户的唯一依据。
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Validate 四个字段都不允许为空。
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("%w: first name", ErrMissingField)
	}
	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: last name", ErrMissingField)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: phone", ErrMissingField)
	}
	return nil
}

// Key 返回大小写不敏感的归一化键。比对用户时永远用这个键，不比原始字段。
func (c Contact) Key() string {
	parts := []string{c.FirstName, c.LastName, c.Email, c.Phone}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}
