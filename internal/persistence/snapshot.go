package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-core/internal/store"
)

// SnapshotSchemaVersion guards against decoding snapshots written by an
// incompatible layout. Bump on breaking entity changes.
const SnapshotSchemaVersion = 1

// SnapshotRepository persists the aggregate as four flat ordered sequences,
// one table per collection, each row one JSONB entity. The whole state is
// rewritten on every save; writes are fire-and-forget from the store's
// point of view.
type SnapshotRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewSnapshotRepository builds the repository. A nil pool yields a no-op
// repository: loads report no snapshot, saves succeed silently.
func NewSnapshotRepository(pool *pgxpool.Pool, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, logger: logger}
}

// Load reads the last snapshot. Returns (nil, nil) when none was ever
// written; any decode or version problem is an error the caller answers
// with the seed dataset.
func (r *SnapshotRepository) Load(ctx context.Context) (*store.State, error) {
	if r.pool == nil {
		return nil, nil
	}

	var version int
	err := r.pool.QueryRow(ctx, `SELECT schema_version FROM snapshot_meta LIMIT 1`).Scan(&version)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot meta: %w", err)
	}
	if version != SnapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema version %d, want %d", version, SnapshotSchemaVersion)
	}

	state := &store.State{}
	if err := loadCollection(ctx, r.pool, "snapshot_tickets", &state.Tickets); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, r.pool, "snapshot_parts", &state.Parts); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, r.pool, "snapshot_movements", &state.Movements); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, r.pool, "snapshot_purchase_orders", &state.PurchaseOrders); err != nil {
		return nil, err
	}
	return state, nil
}

// Save rewrites all four collections in one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, state *store.State) error {
	if r.pool == nil {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := saveCollection(ctx, tx, "snapshot_tickets", toDocs(state.Tickets)); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "snapshot_parts", toDocs(state.Parts)); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "snapshot_movements", toDocs(state.Movements)); err != nil {
		return err
	}
	if err := saveCollection(ctx, tx, "snapshot_purchase_orders", toDocs(state.PurchaseOrders)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM snapshot_meta`); err != nil {
		return fmt.Errorf("clear snapshot meta: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO snapshot_meta (schema_version) VALUES ($1)`, SnapshotSchemaVersion); err != nil {
		return fmt.Errorf("write snapshot meta: %w", err)
	}
	return tx.Commit(ctx)
}

func loadCollection[T any](ctx context.Context, pool *pgxpool.Pool, table string, out *[]T) error {
	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY position ASC`, table))
	if err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		var entity T
		if err := json.Unmarshal(raw, &entity); err != nil {
			return fmt.Errorf("decode %s row: %w", table, err)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	*out = result
	return nil
}

func saveCollection(ctx context.Context, tx pgx.Tx, table string, docs [][]byte) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i, doc := range docs {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (position, doc) VALUES ($1, $2)`, table), i, doc); err != nil {
			return fmt.Errorf("write %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func toDocs[T any](entities []T) [][]byte {
	docs := make([][]byte, 0, len(entities))
	for i := range entities {
		doc, err := json.Marshal(entities[i])
		if err != nil {
			// Entities are plain structs; marshal cannot fail in practice.
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

var _ store.Snapshotter = (*SnapshotRepository)(nil)
