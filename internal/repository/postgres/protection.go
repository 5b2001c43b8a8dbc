package postgres

import (
	"context"
	"fmt"

	"review-consensus-guard/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	deleteTagProtectionsQuery = `DELETE FROM tag_protections WHERE project_id=$1`
	insertTagProtectionQuery  = `
INSERT INTO tag_protections(project_id, position, tags, branches, jobs, prevent_creation, prevent_update, prevent_deletion)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	selectTagProtectionsQuery = `
SELECT project_id, position, tags, branches, jobs, prevent_creation, prevent_update, prevent_deletion
FROM tag_protections WHERE project_id=$1 ORDER BY position`
)

// ReplaceTagProtections swaps the project's rule list. Rules are stored in the
// given order; positions are renumbered from 0.
func (p *Postgres) ReplaceTagProtections(ctx context.Context, projectID string, rules []entities.TagProtection) ([]entities.TagProtection, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteTagProtectionsQuery, projectID); err != nil {
		p.log.Errorw("failed to delete tag protections", "error", err, "project_id", projectID)
		return nil, fmt.Errorf("delete tag protections: %w", err)
	}

	if len(rules) > 0 {
		batch := &pgx.Batch{}
		for i, r := range rules {
			batch.Queue(insertTagProtectionQuery, projectID, i, r.Tags, r.Branches, r.Jobs,
				r.PreventCreation, r.PreventUpdate, r.PreventDeletion)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			p.log.Errorw("failed to insert tag protections", "error", err, "project_id", projectID)
			return nil, fmt.Errorf("insert tag protections: %w", err)
		}
	}

	stored, err := listTagProtections(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("tag protections replaced", "project_id", projectID, "rules", len(stored))
	return stored, nil
}

// ListTagProtections returns the project's rules ordered by position.
func (p *Postgres) ListTagProtections(ctx context.Context, projectID string) ([]entities.TagProtection, error) {
	return listTagProtections(ctx, p.db, projectID)
}

func listTagProtections(ctx context.Context, q querier, projectID string) ([]entities.TagProtection, error) {
	rows, err := q.Query(ctx, selectTagProtectionsQuery, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tag protections: %w", err)
	}
	defer rows.Close()

	rules := make([]entities.TagProtection, 0)
	for rows.Next() {
		var r entities.TagProtection
		if err := rows.Scan(&r.ProjectID, &r.Position, &r.Tags, &r.Branches, &r.Jobs,
			&r.PreventCreation, &r.PreventUpdate, &r.PreventDeletion); err != nil {
			return nil, fmt.Errorf("scan tag protection: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag protections: %w", err)
	}
	return rules, nil
}
