package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/evaluation"
)

// ─── Evaluations ─────────────────────────────────────────────────────────────

// StoredEvaluation is an evaluation result as persisted for a session.
type StoredEvaluation struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	Output    string `json:"output,omitempty"`
	evaluation.Result
}

// SaveEvaluation appends an evaluation. Results are never updated; a new
// evaluation of the same stage is a new row.
func (s *Store) SaveEvaluation(ctx context.Context, sessionID, output string, res evaluation.Result) (int64, error) {
	fields := []any{res.DimensionScores, res.DimensionWeights, res.MetricScores, res.Criteria, res.Recommendations}
	encoded := make([]string, len(fields))
	for i, f := range fields {
		v, err := encodeJSON(f)
		if err != nil {
			return 0, fmt.Errorf("storage: encode evaluation: %w", err)
		}
		encoded[i] = v
	}

	result, err := s.execHook(ctx, s.db, `
		INSERT INTO evaluations (session_id, stage, industry, overall_score, dimension_scores, dimension_weights,
		                         metric_scores, criteria, recommendations, simulated, output, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, int(res.Stage), nullableString(res.Industry), res.OverallScore,
		encoded[0], encoded[1], encoded[2], encoded[3], encoded[4],
		boolInt(res.Simulated), nullableString(output), formatTime(res.EvaluatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save evaluation: %w", err)
	}
	return result.LastInsertId()
}

// Evaluations lists a session's evaluations oldest first. A negative stage
// lists every stage.
func (s *Store) Evaluations(ctx context.Context, sessionID string, stage catalog.Stage) ([]StoredEvaluation, error) {
	query := `
		SELECT id, session_id, stage, industry, overall_score, dimension_scores, dimension_weights,
		       metric_scores, criteria, recommendations, simulated, output, evaluated_at
		FROM evaluations WHERE session_id = ?`
	args := []any{sessionID}
	if stage >= 0 {
		query += " AND stage = ?"
		args = append(args, int(stage))
	}
	query += " ORDER BY id"

	rows, err := s.queryItHook(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredEvaluation
	for rows.Next() {
		var (
			e                      StoredEvaluation
			st, simulated          int
			industry, output       *string
			dims, weights, metrics string
			criteria, recs, at     string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &st, &industry, &e.OverallScore, &dims, &weights,
			&metrics, &criteria, &recs, &simulated, &output, &at); err != nil {
			return nil, err
		}
		e.Stage = catalog.Stage(st)
		e.Industry = derefString(industry)
		e.Output = derefString(output)
		e.Simulated = simulated != 0
		for _, dec := range []struct {
			raw string
			dst any
		}{
			{dims, &e.DimensionScores},
			{weights, &e.DimensionWeights},
			{metrics, &e.MetricScores},
			{criteria, &e.Criteria},
			{recs, &e.Recommendations},
		} {
			if err := json.Unmarshal([]byte(dec.raw), dec.dst); err != nil {
				return nil, fmt.Errorf("storage: decode evaluation %d: %w", e.ID, err)
			}
		}
		if e.EvaluatedAt, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("storage: evaluation evaluated_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
