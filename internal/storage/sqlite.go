package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JamesPrial/relation-graph-core/pkg/graph"
	_ "github.com/mattn/go-sqlite3"
)

type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore creates a new SQLite relation store with the specified database path and WAL mode setting
func NewSqliteStore(dbPath string, walMode bool) (*SqliteStore, error) {
	// Configure connection string with appropriate settings
	connStr := dbPath
	if walMode {
		connStr += "?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_foreign_keys=true"
	} else {
		connStr += "?_synchronous=FULL&_cache_size=1000&_foreign_keys=true"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SqliteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables for the database
func (s *SqliteStore) initSchema() error {
	createRelationsTable := `
	CREATE TABLE IF NOT EXISTS relations (
		from_type TEXT NOT NULL,
		from_id TEXT NOT NULL,
		to_type TEXT NOT NULL,
		to_id TEXT NOT NULL,
		relation_type TEXT NOT NULL,
		type_group TEXT NOT NULL DEFAULT 'Common',
		PRIMARY KEY (from_type, from_id, to_type, to_id, relation_type)
	);

	CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_type, from_id);
	CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_type, to_id);
	CREATE INDEX IF NOT EXISTS idx_relations_from_type ON relations(from_type, from_id, relation_type);
	CREATE INDEX IF NOT EXISTS idx_relations_to_type ON relations(to_type, to_id, relation_type);
	`

	_, err := s.db.Exec(createRelationsTable)
	return err
}

// Exists reports whether the relation identified by (from, to, type) is stored
func (s *SqliteStore) Exists(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM relations
		WHERE from_type = ? AND from_id = ? AND to_type = ? AND to_id = ? AND relation_type = ?
	`, from.EntityType, from.ID, to.EntityType, to.ID, relationType).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check relation: %w", err)
	}

	return count > 0, nil
}

// Save stores or overwrites a relation
func (s *SqliteStore) Save(ctx context.Context, relation graph.Relation) (bool, error) {
	typeGroup := relation.TypeGroup
	if typeGroup == "" {
		typeGroup = graph.TypeGroupCommon
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relations (from_type, from_id, to_type, to_id, relation_type, type_group)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(from_type, from_id, to_type, to_id, relation_type) DO UPDATE SET
			type_group = excluded.type_group
	`,
		relation.From.EntityType,
		relation.From.ID,
		relation.To.EntityType,
		relation.To.ID,
		relation.Type,
		typeGroup,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save relation: %w", err)
	}

	return true, nil
}

// Delete removes a relation, reporting whether it was present
func (s *SqliteStore) Delete(ctx context.Context, relation graph.Relation) (bool, error) {
	return s.DeleteByKey(ctx, relation.From, relation.To, relation.Type)
}

// DeleteByKey removes the relation identified by (from, to, type)
func (s *SqliteStore) DeleteByKey(ctx context.Context, from, to graph.EntityID, relationType string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM relations
		WHERE from_type = ? AND from_id = ? AND to_type = ? AND to_id = ? AND relation_type = ?
	`, from.EntityType, from.ID, to.EntityType, to.ID, relationType)
	if err != nil {
		return false, fmt.Errorf("failed to delete relation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// FindAllByFrom returns every relation whose From endpoint is from
func (s *SqliteStore) FindAllByFrom(ctx context.Context, from graph.EntityID) ([]graph.Relation, error) {
	return s.query(ctx, `
		SELECT from_type, from_id, to_type, to_id, relation_type, type_group
		FROM relations
		WHERE from_type = ? AND from_id = ?
	`, from.EntityType, from.ID)
}

// FindAllByFromAndType returns outgoing relations of an exact type
func (s *SqliteStore) FindAllByFromAndType(ctx context.Context, from graph.EntityID, relationType string) ([]graph.Relation, error) {
	return s.query(ctx, `
		SELECT from_type, from_id, to_type, to_id, relation_type, type_group
		FROM relations
		WHERE from_type = ? AND from_id = ? AND relation_type = ?
	`, from.EntityType, from.ID, relationType)
}

// FindAllByTo returns every relation whose To endpoint is to
func (s *SqliteStore) FindAllByTo(ctx context.Context, to graph.EntityID) ([]graph.Relation, error) {
	return s.query(ctx, `
		SELECT from_type, from_id, to_type, to_id, relation_type, type_group
		FROM relations
		WHERE to_type = ? AND to_id = ?
	`, to.EntityType, to.ID)
}

// FindAllByToAndType returns incoming relations of an exact type
func (s *SqliteStore) FindAllByToAndType(ctx context.Context, to graph.EntityID, relationType string) ([]graph.Relation, error) {
	return s.query(ctx, `
		SELECT from_type, from_id, to_type, to_id, relation_type, type_group
		FROM relations
		WHERE to_type = ? AND to_id = ? AND relation_type = ?
	`, to.EntityType, to.ID, relationType)
}

// DeleteOutbound removes every relation originating at id
func (s *SqliteStore) DeleteOutbound(ctx context.Context, id graph.EntityID) (bool, error) {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM relations
		WHERE from_type = ? AND from_id = ?
	`, id.EntityType, id.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete outbound relations: %w", err)
	}

	return true, nil
}

// Close closes the database connection
func (s *SqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SqliteStore) query(ctx context.Context, stmt string, args ...interface{}) ([]graph.Relation, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	var relations []graph.Relation
	for rows.Next() {
		var rel graph.Relation
		err := rows.Scan(
			&rel.From.EntityType,
			&rel.From.ID,
			&rel.To.EntityType,
			&rel.To.ID,
			&rel.Type,
			&rel.TypeGroup,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		relations = append(relations, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return relations, nil
}
