package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/servicehub/internal/domain/entity"
)

// approvalStore reads and appends rows of an approval chain table.
// Leave and expense chains share the layout and differ only in table and owner column.
type approvalStore struct {
	table    string
	ownerCol string
}

var (
	leaveApprovals   = approvalStore{table: "leave_approvals", ownerCol: "leave_id"}
	expenseApprovals = approvalStore{table: "expense_approvals", ownerCol: "expense_id"}
)

// appendEntry inserts entry with the next sequence number of its owner
func (s approvalStore) appendEntry(ctx context.Context, db *sql.DB, entry *entity.ApprovalEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, %[2]s, approver_id, approver_name, action, comment, seq, created_at)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM %[1]s WHERE %[2]s = ?), ?)
	`, s.table, s.ownerCol)

	_, err := executor(ctx, db).ExecContext(ctx, query,
		entry.ID,
		entry.EntityID,
		entry.ApproverID,
		entry.ApproverName,
		entry.Action,
		entry.Comment,
		entry.EntityID,
		entry.CreatedAt,
	)
	return err
}

// list returns the chain of ownerID in append order
func (s approvalStore) list(ctx context.Context, db *sql.DB, ownerID string) ([]*entity.ApprovalEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, %[2]s, approver_id, approver_name, action, comment, created_at
		FROM %[1]s
		WHERE %[2]s = ?
		ORDER BY seq ASC
	`, s.table, s.ownerCol)

	rows, err := executor(ctx, db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entity.ApprovalEntry
	for rows.Next() {
		var entry entity.ApprovalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityID,
			&entry.ApproverID,
			&entry.ApproverName,
			&entry.Action,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
