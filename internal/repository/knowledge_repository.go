package repository

import (
	"context"

	"kbchat/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// ListAll returns the full corpus ordered by primary key. The stable
// order matters: the document-level retriever breaks score ties by
// first-seen position.
func (r *KnowledgeRepository) ListAll(ctx context.Context) ([]*models.Knowledge, error) {
	query := squirrel.Select("id", "title", "content",
		"COALESCE(keywords, '')", "COALESCE(intent, '')",
		"created_at", "updated_at").
		From("knowledge").
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Knowledge
	for rows.Next() {
		var doc models.Knowledge
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.Content, &doc.Keywords, &doc.Intent,
			&doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id int64) (*models.Knowledge, error) {
	query := squirrel.Select("id", "title", "content",
		"COALESCE(keywords, '')", "COALESCE(intent, '')",
		"created_at", "updated_at").
		From("knowledge").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Knowledge
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.Title, &doc.Content, &doc.Keywords, &doc.Intent,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *KnowledgeRepository) Create(ctx context.Context, doc *models.Knowledge) error {
	query := squirrel.Insert("knowledge").
		Columns("title", "content", "keywords", "intent", "created_at", "updated_at").
		Values(doc.Title, doc.Content, doc.Keywords, doc.Intent, doc.CreatedAt, doc.UpdatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&doc.ID)
}

func (r *KnowledgeRepository) Update(ctx context.Context, doc *models.Knowledge) error {
	query := squirrel.Update("knowledge").
		Set("title", doc.Title).
		Set("content", doc.Content).
		Set("keywords", doc.Keywords).
		Set("intent", doc.Intent).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := squirrel.Delete("knowledge").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
