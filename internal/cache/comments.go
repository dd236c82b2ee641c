package cache

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/fragmede/quibble/internal/api"
)

const fetchedAtKey = "comments_fetched_at"

// ReplaceComments swaps the stored snapshot for the given batch. The whole
// previous snapshot goes; there is no diffing between fetches.
func (d *DB) ReplaceComments(records []api.Comment) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning snapshot replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments`); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO comments
		(id, app, author, channel_id, comment_type, content, created_at, parent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// Insertion order is the fetch order; Comments reads back by rowid so
	// tie-breaking in the tree build stays identical after a restart.
	for _, rec := range records {
		if _, err := stmt.Exec(rec.ID, rec.App, rec.Author, rec.ChannelID,
			rec.CommentType, rec.Content, rec.CreatedAt, rec.ParentID); err != nil {
			return fmt.Errorf("inserting comment %s: %w", rec.ID, err)
		}
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	if _, err := tx.Exec(`INSERT OR REPLACE INTO snapshot_meta (key, value) VALUES (?, ?)`,
		fetchedAtKey, now); err != nil {
		return fmt.Errorf("recording snapshot time: %w", err)
	}

	return tx.Commit()
}

// Comments returns the stored snapshot in its original fetch order along
// with the time it was fetched. An empty database yields no records and a
// zero time.
func (d *DB) Comments() ([]api.Comment, time.Time, error) {
	rows, err := d.db.Query(`SELECT id, app, author, channel_id, comment_type,
		content, created_at, parent_id FROM comments ORDER BY rowid`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var records []api.Comment
	for rows.Next() {
		var rec api.Comment
		if err := rows.Scan(&rec.ID, &rec.App, &rec.Author, &rec.ChannelID,
			&rec.CommentType, &rec.Content, &rec.CreatedAt, &rec.ParentID); err != nil {
			return nil, time.Time{}, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	var fetchedAt time.Time
	var value string
	err = d.db.QueryRow(`SELECT value FROM snapshot_meta WHERE key = ?`, fetchedAtKey).Scan(&value)
	if err == nil {
		if unix, perr := strconv.ParseInt(value, 10, 64); perr == nil {
			fetchedAt = time.Unix(unix, 0)
		}
	} else if err != sql.ErrNoRows {
		return nil, time.Time{}, err
	}

	return records, fetchedAt, nil
}
