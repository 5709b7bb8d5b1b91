package migration

import (
	"github.com/memoapp/memo-server/internal/domain"
	"gorm.io/gorm"
)

// Run applies schema migrations for all tables
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Memo{},
	)
}
