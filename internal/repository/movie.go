package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/user/aisearch/internal/model"
)

// MovieRepository 电影数据仓库
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository 创建电影仓库
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// UpsertFromFeed 写入订阅源数据
// 冲突时只更新源字段，genres 仅首次插入时写入，避免覆盖后续分类追加的标签
// url / path 由挂载扫描另行维护，订阅源同步不碰
func (r *MovieRepository) UpsertFromFeed(ctx context.Context, m *model.Movie) error {
	query := `
		INSERT INTO movies (id, title, description_en, year, poster, background, genres, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description_en = EXCLUDED.description_en,
			year = EXCLUDED.year,
			poster = EXCLUDED.poster,
			background = EXCLUDED.background,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Title, m.DescriptionEN, m.Year, m.Poster, m.Background, m.Genres)
	if err != nil {
		return fmt.Errorf("upsert movie failed: %v", err)
	}
	return nil
}

// ListPendingEnrichment 查询待分析的电影（未分类且有英文简介）
func (r *MovieRepository) ListPendingEnrichment(ctx context.Context, limit int) ([]*model.Movie, error) {
	query := `
		SELECT id, title, description_en, genres
		FROM movies
		WHERE ai_classified = FALSE AND description_en <> ''
		ORDER BY updated_at ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending movies failed: %v", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	for rows.Next() {
		m := &model.Movie{}
		if err := rows.Scan(&m.ID, &m.Title, &m.DescriptionEN, &m.Genres); err != nil {
			return nil, fmt.Errorf("scan movie failed: %v", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// CommitEnrichment 保存分析结果并标记已分类
// embedding 可为 nil，表示向量生成失败，此时保留库中已有向量，其余结果照常落库
func (r *MovieRepository) CommitEnrichment(ctx context.Context, m *model.Movie) error {
	query := `
		UPDATE movies SET
			description_it = $2,
			genres = $3,
			phobia_warnings = $4,
			embedding = COALESCE($5, embedding),
			ai_classified = TRUE,
			updated_at = NOW()
		WHERE id = $1`

	var embedding interface{}
	if m.Embedding != nil {
		embedding = *m.Embedding
	}

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.DescriptionIT, m.Genres, m.PhobiaWarnings, embedding)
	if err != nil {
		return fmt.Errorf("commit enrichment failed: %v", err)
	}
	return nil
}

// FindByID 根据 ID 查询电影
func (r *MovieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	query := `
		SELECT id, title, description_en, description_it, year, poster, background,
			genres, ai_classified, phobia_warnings, url, path, updated_at
		FROM movies WHERE id = $1`

	m := &model.Movie{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.DescriptionEN, &m.DescriptionIT, &m.Year, &m.Poster, &m.Background,
		&m.Genres, &m.AIClassified, &m.PhobiaWarnings, &m.URL, &m.Path, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie failed: %v", err)
	}
	return m, nil
}

// ListAll 查询全部电影（目录页）
func (r *MovieRepository) ListAll(ctx context.Context) ([]*model.Movie, error) {
	query := `
		SELECT id, title, description_en, description_it, year, poster, background,
			genres, ai_classified, phobia_warnings, url, path, updated_at
		FROM movies ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies failed: %v", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	for rows.Next() {
		m := &model.Movie{}
		if err := rows.Scan(
			&m.ID, &m.Title, &m.DescriptionEN, &m.DescriptionIT, &m.Year, &m.Poster, &m.Background,
			&m.Genres, &m.AIClassified, &m.PhobiaWarnings, &m.URL, &m.Path, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan movie failed: %v", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ListEmbedded 查询已有向量的电影，用于重建向量索引
func (r *MovieRepository) ListEmbedded(ctx context.Context) ([]*model.Movie, error) {
	query := `
		SELECT id, title, description_en, year, embedding
		FROM movies
		WHERE embedding IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embedded movies failed: %v", err)
	}
	defer rows.Close()

	var movies []*model.Movie
	for rows.Next() {
		m := &model.Movie{}
		var emb pgvector.Vector
		if err := rows.Scan(&m.ID, &m.Title, &m.DescriptionEN, &m.Year, &emb); err != nil {
			return nil, fmt.Errorf("scan movie failed: %v", err)
		}
		m.Embedding = &emb
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ResetClassification 重置分类标记，使后台任务重新分析该电影
func (r *MovieRepository) ResetClassification(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE movies SET ai_classified = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("reset classification failed: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountAll 电影总数
func (r *MovieRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movies failed: %v", err)
	}
	return count, nil
}

// CountPending 待分析电影数
func (r *MovieRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies WHERE ai_classified = FALSE AND description_en <> ''`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending movies failed: %v", err)
	}
	return count, nil
}
