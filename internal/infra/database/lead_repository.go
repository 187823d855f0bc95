package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// LeadRepository is the Postgres-backed pipeline store. Every mutation runs in
// one transaction, and single-lead status changes are guarded by the version column.
// Reads run in a repeatable-read transaction so a lead never pairs with another
// commit's timeline.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, full_name, instagram_handle, profile_picture, phone_number, only_fans_earnings,
	currently_signed_to, referred_by, whos_talking_to, notes, last_time_spoken_to, status,
	version, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead, idempotencyKey string) (*entity.Lead, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO leads (` + leadColumns + `, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (idempotency_key) DO NOTHING
	`
	res, err := tx.ExecContext(ctx, query,
		lead.ID,
		lead.FullName,
		lead.InstagramHandle,
		lead.ProfilePicture,
		nullString(lead.PhoneNumber),
		lead.OnlyFansEarnings,
		nullString(lead.CurrentlySignedTo),
		nullString(lead.ReferredBy),
		lead.WhosTalkingTo,
		nullString(lead.Notes),
		lead.LastTimeSpokenTo,
		string(lead.Status),
		lead.Version,
		lead.CreatedAt,
		lead.UpdatedAt,
		nullString(idempotencyKey),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, false, entity.ErrDuplicateLead
		}
		return nil, false, fmt.Errorf("insert lead: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var existingID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM leads WHERE idempotency_key = $1`, idempotencyKey).Scan(&existingID)
		if err != nil {
			return nil, false, fmt.Errorf("lookup idempotency key: %w", err)
		}
		existing, err := findLead(ctx, tx, existingID)
		if err != nil {
			return nil, false, err
		}
		return existing, true, tx.Commit()
	}

	for _, e := range lead.ConversationTimeline {
		if err := insertEntry(ctx, tx, lead.ID, e); err != nil {
			return nil, false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	stored := lead.Clone()
	return &stored, false, nil
}

// snapshot makes the lead rows and their timelines come from the same committed state.
var snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lead, err := findLead(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return lead, tx.Commit()
}

// List returns leads newest first, the order the dashboard shows them in.
func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	leads, err := listLeads(ctx, tx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(leads))
	for i := range leads {
		ids[i] = leads[i].ID
	}

	timelines, err := loadTimelines(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for i := range leads {
		leads[i].ConversationTimeline = timelines[leads[i].ID]
	}
	return leads, tx.Commit()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status, expectedVersion int, entry *entity.ConversationEntry) (*entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE leads
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND ($4 = 0 OR version = $4)
	`
	res, err := tx.ExecContext(ctx, query, id, string(status), time.Now(), expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update lead status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, entity.ErrLeadNotFound
		}
		return nil, entity.ErrVersionConflict
	}

	if entry != nil {
		if err := insertEntry(ctx, tx, id, *entry); err != nil {
			return nil, err
		}
	}
	lead, err := findLead(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return lead, tx.Commit()
}

func (r *LeadRepository) BulkUpdateStatus(ctx context.Context, ids []string, status entity.Status, entry *entity.ConversationEntry) ([]string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		WITH updated AS (
			UPDATE leads
			SET status = $2, version = version + 1, updated_at = $3
			WHERE id = ANY($1)
			RETURNING id, seq
		)
		SELECT id FROM updated ORDER BY seq DESC
	`
	updated, err := collectIDs(tx.QueryContext(ctx, query, pq.Array(ids), string(status), time.Now()))
	if err != nil {
		return nil, fmt.Errorf("bulk update lead status: %w", err)
	}

	if entry != nil {
		for _, id := range updated {
			e := entity.NewConversationEntry(entry.DealStatus, entry.Notes, entry.Date)
			if err := insertEntry(ctx, tx, id, e); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *LeadRepository) AppendEntry(ctx context.Context, id string, entry entity.ConversationEntry) (*entity.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE leads
		SET last_time_spoken_to = $2, version = version + 1, updated_at = $2
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query, id, entry.Date)
	if err != nil {
		return nil, fmt.Errorf("touch lead contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, entity.ErrLeadNotFound
	}
	if err := insertEntry(ctx, tx, id, entry); err != nil {
		return nil, err
	}
	lead, err := findLead(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return lead, tx.Commit()
}

func (r *LeadRepository) Delete(ctx context.Context, ids []string) ([]string, error) {
	query := `
		WITH removed AS (
			DELETE FROM leads WHERE id = ANY($1) RETURNING id, seq
		)
		SELECT id FROM removed ORDER BY seq DESC
	`
	removed, err := collectIDs(r.DB.QueryContext(ctx, query, pq.Array(ids)))
	if err != nil {
		return nil, fmt.Errorf("delete leads: %w", err)
	}
	return removed, nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func findLead(ctx context.Context, q queryer, id string) (*entity.Lead, error) {
	lead, err := scanLead(q.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	timelines, err := loadTimelines(ctx, q, []string{id})
	if err != nil {
		return nil, err
	}
	lead.ConversationTimeline = timelines[id]
	return lead, nil
}

func listLeads(ctx context.Context, q queryer) ([]entity.Lead, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func loadTimelines(ctx context.Context, q queryer, ids []string) (map[string][]entity.ConversationEntry, error) {
	out := make(map[string][]entity.ConversationEntry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `
		SELECT id, lead_id, date, deal_status, notes
		FROM conversation_entries
		WHERE lead_id = ANY($1)
		ORDER BY lead_id, seq
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e entity.ConversationEntry
		var leadID string
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &leadID, &e.Date, &e.DealStatus, &notes); err != nil {
			return nil, err
		}
		e.Notes = notes.String
		out[leadID] = append(out[leadID], e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var phone, signedTo, referredBy, notes sql.NullString
	var status string
	err := row.Scan(
		&l.ID,
		&l.FullName,
		&l.InstagramHandle,
		&l.ProfilePicture,
		&phone,
		&l.OnlyFansEarnings,
		&signedTo,
		&referredBy,
		&l.WhosTalkingTo,
		&notes,
		&l.LastTimeSpokenTo,
		&status,
		&l.Version,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.PhoneNumber = phone.String
	l.CurrentlySignedTo = signedTo.String
	l.ReferredBy = referredBy.String
	l.Notes = notes.String
	l.Status = entity.Status(status)
	return &l, nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, leadID string, e entity.ConversationEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO conversation_entries (id, lead_id, date, deal_status, notes)
		VALUES ($1, $2, $3, $4, $5)
	`, e.ID, leadID, e.Date, e.DealStatus, nullString(e.Notes))
	if err != nil {
		return fmt.Errorf("insert timeline entry: %w", err)
	}
	return nil
}

func collectIDs(rows *sql.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
