package organization

import (
	"strings"
	"time"
	"unicode"
)

// Organization is a tenant. Every scoped entity carries its id; deactivating
// an organization locks out its users without touching their data.
type Organization struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null;uniqueIndex"`
	Initials  string     `json:"initials" gorm:"not null"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Website   string     `json:"website"`
	IsActive  bool       `json:"is_active" gorm:"column:is_active;default:true"`
	IsDeleted bool       `json:"-" gorm:"column:is_deleted;default:false"`
	DeletedAt *time.Time `json:"-" gorm:"column:deleted_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Organization) TableName() string {
	return "organizations"
}

// InitialsFromName derives the invoice-number initials from an organization
// name: the upper-cased first letter of each word, capped at three.
func InitialsFromName(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
			}
			break
		}
		if b.Len() >= 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "ORG"
	}
	return b.String()
}
