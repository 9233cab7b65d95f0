package repository

import (
	"context"
	"sort"

	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// LearningContentRepository represents behavior of learning content repository
type LearningContentRepository interface {
	Create(context.Context, *model.LearningContent) error
	FindAll(context.Context) ([]*model.LearningContent, error)
	DeleteByID(context.Context, string) error
}

type sqlLearningContentRepository struct {
	driver   string
	executor transactor.SQLWithinTransactionExecutor
}

// NewSQLLearningContentRepository builds learning content repository
func NewSQLLearningContentRepository(driver string, e transactor.SQLWithinTransactionExecutor) LearningContentRepository {
	return &sqlLearningContentRepository{driver: driver, executor: e}
}

func (r *sqlLearningContentRepository) Create(ctx context.Context, lc *model.LearningContent) error {
	q := rebind(r.driver, `INSERT INTO learning_contents(id, title, description, type, url, thumbnail_url, created_by, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.executor.Executor(ctx).ExecContext(
		ctx,
		q,
		lc.ID,
		lc.Title,
		lc.Description,
		lc.Type,
		lc.URL,
		lc.ThumbnailURL,
		lc.CreatedBy,
		formatInstant(lc.CreatedAt),
	)
	if err != nil {
		return err
	}
	return nil
}

// FindAll returns content newest first
func (r *sqlLearningContentRepository) FindAll(ctx context.Context) ([]*model.LearningContent, error) {
	q := "SELECT id, title, description, type, url, thumbnail_url, created_by, created_at FROM learning_contents"

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contents := make([]*model.LearningContent, 0)
	for rows.Next() {
		var (
			lc        model.LearningContent
			createdAt string
		)

		if err := rows.Scan(&lc.ID, &lc.Title, &lc.Description, &lc.Type, &lc.URL, &lc.ThumbnailURL, &lc.CreatedBy, &createdAt); err != nil {
			return nil, err
		}

		if lc.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		contents = append(contents, &lc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortNewestFirst(contents)
	return contents, nil
}

func (r *sqlLearningContentRepository) DeleteByID(ctx context.Context, id string) error {
	q := rebind(r.driver, "DELETE FROM learning_contents WHERE id = ?")
	if _, err := r.executor.Executor(ctx).ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}

// stored times may carry different offsets, so text order is not chronological
func sortNewestFirst(contents []*model.LearningContent) {
	sort.SliceStable(contents, func(i, j int) bool {
		return contents[i].CreatedAt.After(contents[j].CreatedAt)
	})
}
