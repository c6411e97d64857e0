package auditlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const logColumns = `id, user_id, module, action, target_id, ip_address, user_agent, details, created_at`

// Insert always writes through the pool, never the caller's transaction, so
// a rolled-back operation still leaves its audit trail and a failed audit
// write cannot abort the operation.
func (r *repoPG) Insert(ctx context.Context, log *OperationLog) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO operation_log (user_id, module, action, target_id, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		log.UserID, log.Module, log.Action, log.TargetID, log.IPAddress, log.UserAgent, log.Details,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*OperationLog, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.Module != "" {
		add("module = $%d", f.Module)
	}
	if f.Action != "" {
		add("action = $%d", f.Action)
	}
	if f.UserID > 0 {
		add("user_id = $%d", f.UserID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := strings.Join(conds, " AND ")

	q := db.Conn(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM operation_log WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM operation_log WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		logColumns, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []*OperationLog
	for rows.Next() {
		l := &OperationLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.Module, &l.Action, &l.TargetID,
			&l.IPAddress, &l.UserAgent, &l.Details, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}
