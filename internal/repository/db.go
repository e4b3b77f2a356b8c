package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database failed: %v", err)
	}

	// 连接池配置
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database failed: %v", err)
	}

	log.Println("[DB] 数据库连接成功")
	return db, nil
}

// Migrate 建表与补列，幂等可重复执行
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description_en TEXT NOT NULL DEFAULT '',
			description_it TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			poster TEXT NOT NULL DEFAULT '',
			background TEXT NOT NULL DEFAULT '',
			genres TEXT NOT NULL DEFAULT '',
			ai_classified BOOLEAN NOT NULL DEFAULT FALSE,
			phobia_warnings TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`ALTER TABLE movies ADD COLUMN IF NOT EXISTS embedding vector(768)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_ai_classified ON movies (ai_classified)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate failed: %v", err)
		}
	}

	log.Println("[DB] 数据库迁移完成")
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	Movie *MovieRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Movie: NewMovieRepository(db),
	}
}
