// Package store persists scan results in SQLite. One row per scan: the
// canonical record as JSON in scan_results, plus flat lead and score
// columns so listings and the dashboard never have to parse JSON.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore implements interfaces.Store on a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// New opens (creating if needed) the database at dbPath and applies the
// schema. Pass ":memory:" for an ephemeral database in tests.
func New(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		return nil, errors.New("store: nil logger provided")
	}
	if dbPath == "" {
		return nil, errors.New("store: empty database path")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("scan store initialized", logging.Field{Key: "path", Value: dbPath})
	return &SQLiteStore{
		db:     db,
		logger: logger.With(logging.Field{Key: "component", Value: "store"}),
	}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// SaveScanResult writes the canonical record plus the flat columns.
// Saving the same scan_id again replaces the earlier row.
func (s *SQLiteStore) SaveScanResult(ctx context.Context, result *model.ScanResult) (int64, error) {
	if result == nil {
		return 0, errors.New("store: nil scan result")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("marshal scan result: %w", err)
	}

	score := 0
	riskLevel := ""
	if result.RiskAssessment != nil {
		score = result.RiskAssessment.OverallScore
		riskLevel = result.RiskAssessment.RiskLevel
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (scan_id, target, lead_name, lead_email, lead_company, lead_phone,
		                   overall_score, risk_level, scan_results, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scan_id) DO UPDATE SET
			target = excluded.target,
			overall_score = excluded.overall_score,
			risk_level = excluded.risk_level,
			scan_results = excluded.scan_results`,
		result.ScanID, result.Target,
		result.ClientInfo.Name, result.ClientInfo.Email,
		result.ClientInfo.Company, result.ClientInfo.Phone,
		score, riskLevel, string(raw), result.Timestamp.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	s.logger.Info("scan saved",
		logging.Field{Key: "scan_id", Value: result.ScanID},
		logging.Field{Key: "id", Value: id})
	return id, nil
}

// GetScanResult returns the stored record as the flattened row shape the
// report normalizer knows how to re-hydrate: flat lead_* columns plus
// the serialized scan_results text. Unknown scan IDs return (nil, nil).
func (s *SQLiteStore) GetScanResult(ctx context.Context, scanID string) (map[string]any, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT scan_id, target, lead_name, lead_email, lead_company, lead_phone,
		       overall_score, risk_level, scan_results, created_at
		FROM scans WHERE scan_id = ?`, scanID)

	var (
		rec                              = map[string]any{}
		id, target, riskLevel, raw       string
		leadName, leadEmail, leadCompany sql.NullString
		leadPhone                        sql.NullString
		score                            int
		createdAt                        time.Time
	)
	err := row.Scan(&id, &target, &leadName, &leadEmail, &leadCompany, &leadPhone,
		&score, &riskLevel, &raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query scan %s: %w", scanID, err)
	}

	rec["scan_id"] = id
	rec["target"] = target
	rec["lead_name"] = leadName.String
	rec["lead_email"] = leadEmail.String
	rec["lead_company"] = leadCompany.String
	rec["lead_phone"] = leadPhone.String
	rec["overall_score"] = score
	rec["risk_level"] = riskLevel
	rec["scan_results"] = raw
	rec["timestamp"] = createdAt.UTC().Format(time.RFC3339)
	return rec, nil
}

// ListScans returns the newest scans, up to limit (0 means no limit).
func (s *SQLiteStore) ListScans(ctx context.Context, limit int) ([]model.ScanSummary, error) {
	return s.list(ctx, `
		SELECT id, scan_id, target, lead_name, lead_email, lead_company,
		       overall_score, risk_level, created_at
		FROM scans ORDER BY created_at DESC, id DESC LIMIT ?`, normalizeLimit(limit))
}

// ListScansByTarget returns the newest scans for one target.
func (s *SQLiteStore) ListScansByTarget(ctx context.Context, target string, limit int) ([]model.ScanSummary, error) {
	return s.list(ctx, `
		SELECT id, scan_id, target, lead_name, lead_email, lead_company,
		       overall_score, risk_level, created_at
		FROM scans WHERE target = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		target, normalizeLimit(limit))
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1 // SQLite: negative LIMIT means unlimited
	}
	return limit
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]model.ScanSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []model.ScanSummary
	for rows.Next() {
		var (
			sum                              model.ScanSummary
			leadName, leadEmail, leadCompany sql.NullString
		)
		if err := rows.Scan(&sum.ID, &sum.ScanID, &sum.Target,
			&leadName, &leadEmail, &leadCompany,
			&sum.OverallScore, &sum.RiskLevel, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		sum.LeadName = leadName.String
		sum.LeadEmail = leadEmail.String
		sum.LeadCompany = leadCompany.String
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Stats aggregates stored scans for the dashboard.
func (s *SQLiteStore) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{RiskBreakdown: map[string]int{}}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(overall_score), 0),
		       COUNT(DISTINCT NULLIF(lead_email, '')), COALESCE(MAX(created_at), '')
		FROM scans`)
	var latest string
	if err := row.Scan(&stats.TotalScans, &stats.AverageScore, &stats.DistinctLeads, &latest); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if latest != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, latest); err == nil {
				stats.LatestScanTime = ts
				break
			}
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*) FROM scans GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("stats breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("stats row: %w", err)
		}
		if level != "" {
			stats.RiskBreakdown[level] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.ListScans(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.RecentScans = recent
	return stats, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
