package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var interviewEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "outcome", "department",
	"symptoms", "question_count", "negative_streak", "top_score",
	"duration_ms", "explanation",
}

func (r *eventRepo) AppendInterview(ctx context.Context, data InterviewEventData) error {
	symptoms, err := json.Marshal(nonNil(data.Symptoms))
	if err != nil {
		return fmt.Errorf("marshal symptoms: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableInterviewEvents).
		Columns(interviewEventColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(), data.SessionID, data.Outcome, data.Department,
			string(symptoms), data.QuestionCount, data.NegativeStreak, data.TopScore,
			data.Duration.Milliseconds(), data.Explanation,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save interview event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryInterviews(ctx context.Context, opts QueryOpts) ([]InterviewEvent, error) {
	sel := builder().Select(interviewEventColumns...).From(entsql.Table(tableInterviewEvents))
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interview events: %w", err)
	}
	defer rows.Close()

	var out []InterviewEvent
	for rows.Next() {
		var (
			e          InterviewEvent
			ts         int64
			symptoms   string
			durationMs int64
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.SessionID, &e.Outcome, &e.Department,
			&symptoms, &e.QuestionCount, &e.NegativeStreak, &e.TopScore,
			&durationMs, &e.Explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("scan interview event: %w", err)
		}
		if err := json.Unmarshal([]byte(symptoms), &e.Symptoms); err != nil {
			return nil, fmt.Errorf("decode symptoms of event %d: %w", e.ID, err)
		}
		e.Timestamp = time.UnixMilli(ts).UTC()
		e.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) InterviewOutcomeCounts(ctx context.Context) ([]OutcomeCount, error) {
	query, args := builder().Select(
		"outcome",
		entsql.As(entsql.Count("*"), "interviews"),
		entsql.As(entsql.Avg("question_count"), "avg_questions"),
	).
		From(entsql.Table(tableInterviewEvents)).
		GroupBy("outcome").
		OrderBy(entsql.Desc("interviews"), "outcome").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcome counts: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var c OutcomeCount
		if err := rows.Scan(&c.Outcome, &c.Count, &c.AvgQuestions); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
