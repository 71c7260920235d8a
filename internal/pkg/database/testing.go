package database

import (
	"Inkwell/internal/api/config"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewMemoryDB 打开一个独立的内存 SQLite 库并完成建表，供测试和本地调试使用
func NewMemoryDB(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return NewGormDB(&config.DBConfig{
		Driver:      "sqlite",
		DSN:         fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=0", name, uuid.NewString()[:8]),
		MaxIdle:     1,
		MaxOpen:     1,
		AutoMigrate: true,
	})
}
