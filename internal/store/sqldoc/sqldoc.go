package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"scheduleright/infras/otel"
	"scheduleright/internal/store"
	"scheduleright/shared/constant"
	"scheduleright/shared/logger"
)

const (
	tableName = "documents"

	mysqlErrDuplicateEntry = 1062
)

// indexFields are the denormalized columns extracted from a document body on
// every write. A booking's client_email doubles as the email index column.
type indexFields struct {
	Type        string `json:"type"`
	OrgID       string `json:"org_id"`
	SiteID      string `json:"site_id"`
	SlotID      string `json:"slot_id"`
	Email       string `json:"email"`
	ClientEmail string `json:"client_email"`
	Token       string `json:"token"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func (f indexFields) email() string {
	if f.Email != "" {
		return f.Email
	}

	return f.ClientEmail
}

type docRow struct {
	ID   string `db:"id"`
	Rev  int64  `db:"rev"`
	Body []byte `db:"body"`
}

type sqlStore struct {
	db   *sqlx.DB
	otel otel.Otel
}

// New wraps a MySQL connection with the document store contract. Documents
// live in a single table as a JSON blob plus denormalized index columns; the
// selector operator subset translates into WHERE predicates over those columns.
func New(db *sqlx.DB, otl otel.Otel) store.Store {
	return &sqlStore{
		db:   db,
		otel: otl,
	}
}

func (s *sqlStore) Find(ctx context.Context, query store.Query) (docs []store.Document, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Find")
	defer scope.End()
	defer scope.TraceIfError(err)

	where, args, err := buildWhere(query.Selector)
	if err != nil {
		return nil, err
	}

	ordering, err := buildOrder(query.Sort)
	if err != nil {
		return nil, err
	}

	pagination, args := buildPagination(query, args)

	sqlQuery := fmt.Sprintf("SELECT id, rev, body FROM %s%s%s%s", tableName, where, ordering, pagination)
	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	rows := []docRow{}
	if err = s.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	docs = make([]store.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, store.Document{
			ID:   row.ID,
			Rev:  strconv.FormatInt(row.Rev, 10),
			Body: json.RawMessage(row.Body),
		})
	}

	return docs, nil
}

func (s *sqlStore) Count(ctx context.Context, selector store.Selector) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	where, args, err := buildWhere(selector)
	if err != nil {
		return 0, err
	}

	sqlQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", tableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	if err = s.db.GetContext(ctx, &count, sqlQuery, args...); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (doc store.Document, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	row := docRow{}

	err = s.db.GetContext(ctx, &row, fmt.Sprintf("SELECT id, rev, body FROM %s WHERE id = ?", tableName), id)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, store.ErrNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return doc, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	return store.Document{
		ID:   row.ID,
		Rev:  strconv.FormatInt(row.Rev, 10),
		Body: json.RawMessage(row.Body),
	}, nil
}

func (s *sqlStore) Insert(ctx context.Context, id string, body any) (res store.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	raw, index, err := marshalBody(id, body)
	if err != nil {
		return res, err
	}

	sqlQuery := fmt.Sprintf(
		"INSERT INTO %s (id, rev, doc_type, org_id, site_id, slot_id, email, token, status, start_time, end_time, body) VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		tableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	_, err = s.db.ExecContext(ctx, sqlQuery,
		id, index.Type, index.OrgID, index.SiteID, index.SlotID, index.email(),
		index.Token, index.Status, index.StartTime, index.EndTime, raw,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return res, store.ErrConflict
		}

		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to insert document %s: %w", id, err)
	}

	return store.Result{ID: id, Rev: "1"}, nil
}

func (s *sqlStore) Put(ctx context.Context, id, rev string, body any) (res store.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Put")
	defer scope.End()
	defer scope.TraceIfError(err)

	raw, index, err := marshalBody(id, body)
	if err != nil {
		return res, err
	}

	if rev == "" {
		return s.upsert(ctx, id, raw, index)
	}

	revNum, err := strconv.ParseInt(rev, 10, 64)
	if err != nil {
		return res, fmt.Errorf("invalid document rev %q: %w", rev, err)
	}

	// Conditional replace: only wins when nobody bumped the rev since our read.
	sqlQuery := fmt.Sprintf(
		"UPDATE %s SET rev = rev + 1, doc_type = ?, org_id = ?, site_id = ?, slot_id = ?, email = ?, token = ?, status = ?, start_time = ?, end_time = ?, body = ? WHERE id = ? AND rev = ?",
		tableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	result, err := s.db.ExecContext(ctx, sqlQuery,
		index.Type, index.OrgID, index.SiteID, index.SlotID, index.email(),
		index.Token, index.Status, index.StartTime, index.EndTime, raw,
		id, revNum,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to update document %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		exists := false
		if err = s.db.GetContext(ctx, &exists, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", tableName), id); err != nil {
			return res, fmt.Errorf("failed to check document %s: %w", id, err)
		}

		if exists {
			return res, store.ErrConflict
		}

		return res, store.ErrNotFound
	}

	return store.Result{ID: id, Rev: strconv.FormatInt(revNum+1, 10)}, nil
}

// upsert emulates an unconditional document replace on the primary key.
func (s *sqlStore) upsert(ctx context.Context, id string, raw []byte, index indexFields) (res store.Result, err error) {
	sqlQuery := fmt.Sprintf(
		"INSERT INTO %s (id, rev, doc_type, org_id, site_id, slot_id, email, token, status, start_time, end_time, body) VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE rev = rev + 1, doc_type = VALUES(doc_type), org_id = VALUES(org_id), site_id = VALUES(site_id), slot_id = VALUES(slot_id), "+
			"email = VALUES(email), token = VALUES(token), status = VALUES(status), start_time = VALUES(start_time), end_time = VALUES(end_time), body = VALUES(body)",
		tableName,
	)

	_, err = s.db.ExecContext(ctx, sqlQuery,
		id, index.Type, index.OrgID, index.SiteID, index.SlotID, index.email(),
		index.Token, index.Status, index.StartTime, index.EndTime, raw,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to upsert document %s: %w", id, err)
	}

	var rev int64
	if err = s.db.GetContext(ctx, &rev, fmt.Sprintf("SELECT rev FROM %s WHERE id = ?", tableName), id); err != nil {
		return res, fmt.Errorf("failed to read document rev: %w", err)
	}

	return store.Result{ID: id, Rev: strconv.FormatInt(rev, 10)}, nil
}

func (s *sqlStore) Info(ctx context.Context) (info store.Info, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStoreScopeName, constant.OtelStoreScopeName+".sql.Info")
	defer scope.End()
	defer scope.TraceIfError(err)

	name := ""
	if err = s.db.GetContext(ctx, &name, "SELECT DATABASE()"); err != nil {
		return info, fmt.Errorf("failed to read database name: %w", err)
	}

	count := int64(0)
	if err = s.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)); err != nil {
		return info, fmt.Errorf("failed to count documents: %w", err)
	}

	return store.Info{
		Backend:  "mysql",
		Name:     name,
		DocCount: count,
	}, nil
}

func buildOrder(sorts []store.Sort) (string, error) {
	if len(sorts) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(sorts))

	for _, sort := range sorts {
		column, err := columnFor(sort.Field)
		if err != nil {
			return "", err
		}

		dir := "ASC"
		if sort.Descending {
			dir = "DESC"
		}

		clauses = append(clauses, column+" "+dir)
	}

	return " ORDER BY " + strings.Join(clauses, ", "), nil
}

func buildPagination(query store.Query, args []any) (string, []any) {
	switch {
	case query.Limit > 0 && query.Skip > 0:
		return " LIMIT ? OFFSET ?", append(args, query.Limit, query.Skip)
	case query.Limit > 0:
		return " LIMIT ?", append(args, query.Limit)
	case query.Skip > 0:
		// MySQL has no offset without limit.
		return " LIMIT 18446744073709551615 OFFSET ?", append(args, query.Skip)
	default:
		return "", args
	}
}

func marshalBody(id string, body any) ([]byte, indexFields, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, indexFields{}, fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	index := indexFields{}
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, indexFields{}, fmt.Errorf("failed to extract index fields for %s: %w", id, err)
	}

	return raw, index, nil
}
