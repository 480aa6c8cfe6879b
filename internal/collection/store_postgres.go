// Copyright (c) 2026 MangaMania. All rights reserved.

package collection

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mangamania/api/internal/platform/dberr"
)

// PostgresRepository is the PostgreSQL implementation of [Repository].
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-backed library repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const itemColumns = `
	id, user_id, mal_id, title, cover_url, synopsis, total_chapters, total_volumes, score,
	status, chapters_read, volumes_read, added_at, last_read_at`

/*
Insert adds a library item row.

The unique index on (user_id, mal_id) turns a duplicate add into a CONFLICT
at the storage level, closing the check-then-insert race.

Returns:
  - error: CONFLICT if the user already tracks the title.
*/
func (repository *PostgresRepository) Insert(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO library.item
			(id, user_id, mal_id, title, cover_url, synopsis, total_chapters, total_volumes,
			 score, status, chapters_read, volumes_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING added_at`

	err := repository.pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.MalID,
		item.Title,
		item.CoverURL,
		item.Synopsis,
		item.TotalChapters,
		item.TotalVolumes,
		item.Score,
		item.Status,
		item.ChaptersRead,
		item.VolumesRead,
	).Scan(&item.AddedAt)

	return dberr.Wrap(err, "postgres_collection_repo_insert_failed")
}

/*
GetByMalID fetches a single item owned by the user.

Returns:
  - *Item: The matched item.
  - error: NOT_FOUND if the user does not track the title.
*/
func (repository *PostgresRepository) GetByMalID(ctx context.Context, userID string, malID int) (*Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM library.item
		WHERE user_id = $1 AND mal_id = $2`

	row := repository.pool.QueryRow(ctx, query, userID, malID)
	item, err := scanItem(row)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_collection_repo_get_failed")
	}

	return item, nil
}

/*
ListByUser returns one page of the user's library, most recently added first.

Parameters:
  - limit: Maximum number of rows to return.
  - offset: Number of rows to skip.
*/
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM library.item
		WHERE user_id = $1
		ORDER BY added_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_collection_repo_list_failed")
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, dberr.Wrap(scanErr, "postgres_collection_repo_list_scan_failed")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_collection_repo_list_rows_failed")
	}

	return items, nil
}

/*
CountByUser returns the total number of items in the user's library.
*/
func (repository *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM library.item WHERE user_id = $1`

	var total int64
	if err := repository.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "postgres_collection_repo_count_user_failed")
	}

	return total, nil
}

/*
Update persists status and progress changes to an existing item.

Returns:
  - error: NOT_FOUND if the user does not track the title.
*/
func (repository *PostgresRepository) Update(ctx context.Context, item *Item) error {
	query := `
		UPDATE library.item
		SET status = $3, chapters_read = $4, volumes_read = $5, last_read_at = now()
		WHERE user_id = $1 AND mal_id = $2
		RETURNING last_read_at`

	err := repository.pool.QueryRow(ctx, query,
		item.UserID,
		item.MalID,
		item.Status,
		item.ChaptersRead,
		item.VolumesRead,
	).Scan(&item.LastReadAt)

	return dberr.Wrap(err, "postgres_collection_repo_update_failed")
}

/*
Delete removes the user's item for a catalog ID.

Returns:
  - bool: Whether a row was actually removed.
*/
func (repository *PostgresRepository) Delete(ctx context.Context, userID string, malID int) (bool, error) {
	query := `DELETE FROM library.item WHERE user_id = $1 AND mal_id = $2`

	tag, err := repository.pool.Exec(ctx, query, userID, malID)
	if err != nil {
		return false, dberr.Wrap(err, "postgres_collection_repo_delete_failed")
	}

	return tag.RowsAffected() > 0, nil
}

/*
Exists reports whether the user already tracks the title.
*/
func (repository *PostgresRepository) Exists(ctx context.Context, userID string, malID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM library.item WHERE user_id = $1 AND mal_id = $2)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, userID, malID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_collection_repo_exists_failed")
	}

	return exists, nil
}

/*
CountByStatus aggregates the user's library per reading status.

Returns:
  - map[ReadingStatus]int: Item count per status.
  - int: Total chapters read across the library.
*/
func (repository *PostgresRepository) CountByStatus(ctx context.Context, userID string) (map[ReadingStatus]int, int, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(chapters_read), 0)
		FROM library.item
		WHERE user_id = $1
		GROUP BY status`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_collection_repo_count_failed")
	}
	defer rows.Close()

	counts := make(map[ReadingStatus]int)
	var chaptersTotal int
	for rows.Next() {
		var status ReadingStatus
		var count int
		var chapters int
		if err := rows.Scan(&status, &count, &chapters); err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_collection_repo_count_scan_failed")
		}
		counts[status] = count
		chaptersTotal += chapters
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_collection_repo_count_rows_failed")
	}

	return counts, chaptersTotal, nil
}

// scanItem reads one item row from a pgx row scanner.
func scanItem(row pgx.Row) (*Item, error) {
	item := &Item{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.MalID,
		&item.Title,
		&item.CoverURL,
		&item.Synopsis,
		&item.TotalChapters,
		&item.TotalVolumes,
		&item.Score,
		&item.Status,
		&item.ChaptersRead,
		&item.VolumesRead,
		&item.AddedAt,
		&item.LastReadAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}
