package chatlog

import (
	"context"
	"database/sql"
	"time"
)

// pgStore — вариант хранилища в Postgres, если чатлог должен
// переживать рестарт процесса.
//
// Ожидаемая схема:
//
//	CREATE TABLE chatlog_entries (
//	    id           BIGSERIAL PRIMARY KEY,
//	    room_id      BIGINT NOT NULL,
//	    entry_id     BIGINT NOT NULL,
//	    author_id    BIGINT NOT NULL,
//	    display_name TEXT NOT NULL,
//	    username     TEXT,
//	    text_content TEXT NOT NULL,
//	    replies_to   BIGINT,
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX chatlog_entries_room_idx ON chatlog_entries (room_id, id);
type pgStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Append(ctx context.Context, roomID int64, e Entry) error {
	username := sql.NullString{String: e.Username, Valid: e.Username != ""}
	repliesTo := sql.NullInt64{}
	if e.RepliesTo != nil {
		repliesTo = sql.NullInt64{Int64: *e.RepliesTo, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chatlog_entries (room_id, entry_id, author_id, display_name, username, text_content, replies_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, roomID, e.EntryID, e.AuthorID, e.DisplayName, username, e.Text, repliesTo, time.Now())
	return err
}

func (s *pgStore) Get(ctx context.Context, roomID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, author_id, display_name, username, text_content, replies_to
		FROM chatlog_entries
		WHERE room_id = $1
		ORDER BY id ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			username  sql.NullString
			repliesTo sql.NullInt64
		)
		if err := rows.Scan(
			&e.EntryID,
			&e.AuthorID,
			&e.DisplayName,
			&username,
			&e.Text,
			&repliesTo,
		); err != nil {
			return nil, err
		}
		e.Username = username.String
		if repliesTo.Valid {
			id := repliesTo.Int64
			e.RepliesTo = &id
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *pgStore) Rooms(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT room_id FROM chatlog_entries ORDER BY room_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
