package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type EventParams struct {
	Type      *EventType
	UserEmail *string
	From      *time.Time
	To        *time.Time
}

type ListParams struct {
	EventParams
	// Page starts at 1
	Page int
	Size int
}

func (p ListParams) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.add")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.String("type", event.Type.String()))

	if event.Data == nil {
		event.Data = map[string]string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO fittrack_event (type, user_email, data, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		event.Type,
		event.UserEmail,
		event.Data,
		event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.get")
	defer tracing.EndSpan(span, &err)

	event := &Event{}
	err = r.db.
		QueryRow(ctx, `
			SELECT id, type, user_email, data, timestamp
			FROM fittrack_event
			WHERE id = $1
		`, id).
		Scan(&event.ID, &event.Type, &event.UserEmail, &event.Data, &event.Timestamp)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.list")
	defer tracing.EndSpan(span, &err)
	if params.Type != nil {
		span.SetAttributes(attribute.String("type", params.Type.String()))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}
	span.SetAttributes(attribute.Int("page", params.Page), attribute.Int("size", params.Size))

	events := make([]*Event, 0)
	rows, err := r.db.Query(ctx, `
		SELECT id, type, user_email, data, timestamp
		FROM fittrack_event
		WHERE ($1::text IS NULL OR type = $1)
		  AND ($2::text IS NULL OR user_email = $2)
		  AND ($3::timestamptz IS NULL OR timestamp >= $3)
		  AND ($4::timestamptz IS NULL OR timestamp <= $4)
		ORDER BY timestamp DESC, id DESC
		LIMIT $5 OFFSET $6;
	`,
		params.Type, params.UserEmail,
		params.From, params.To,
		params.Size, params.offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		event := &Event{}
		if err := rows.Scan(&event.ID, &event.Type, &event.UserEmail, &event.Data, &event.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repo) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.count")
	defer tracing.EndSpan(span, &err)

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM fittrack_event
		WHERE ($1::text IS NULL OR type = $1)
		  AND ($2::text IS NULL OR user_email = $2)
		  AND ($3::timestamptz IS NULL OR timestamp >= $3)
		  AND ($4::timestamptz IS NULL OR timestamp <= $4);
	`,
		params.Type, params.UserEmail,
		params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
