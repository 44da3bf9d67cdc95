package stubapi

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-console/internal/domain"
)

// PostgresRepo implements Repository against PostgreSQL.
type PostgresRepo struct{ db *sql.DB }

// NewPostgresRepo creates a Postgres-backed repository.
func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, subject, COALESCE(body,''), COALESCE(template_id,''),
		       COALESCE(smtp_config_id,''), status, scheduled_at,
		       total_recipients, sent_count, opened_count, clicked_count,
		       replied_count, bounced_count, unsubscribed_count,
		       created_at, updated_at
		FROM console_campaigns
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id domain.ID) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := scanCampaign(r.db.QueryRowContext(ctx, `
		SELECT id, name, subject, COALESCE(body,''), COALESCE(template_id,''),
		       COALESCE(smtp_config_id,''), status, scheduled_at,
		       total_recipients, sent_count, opened_count, clicked_count,
		       replied_count, bounced_count, unsubscribed_count,
		       created_at, updated_at
		FROM console_campaigns
		WHERE id = $1
	`, string(id)), c)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func scanCampaign(row rowScanner, c *domain.Campaign) error {
	var scheduled sql.NullTime
	err := row.Scan(
		&c.ID, &c.Name, &c.Subject, &c.Body, &c.TemplateID,
		&c.SMTPConfigID, &c.Status, &scheduled,
		&c.TotalRecipients, &c.SentCount, &c.OpenedCount, &c.ClickedCount,
		&c.RepliedCount, &c.BouncedCount, &c.UnsubscribedCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if scheduled.Valid {
		t := scheduled.Time
		c.ScheduledAt = &t
	}
	return nil
}

// Create inserts the campaign and its recipients in one transaction so a
// failed recipient insert never leaves a half-created campaign behind.
func (r *PostgresRepo) Create(ctx context.Context, c *domain.Campaign, recipients []domain.Recipient) error {
	if c.ID == "" {
		c.ID = domain.ID(uuid.New().String())
	}
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	c.TotalRecipients = len(recipients)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO console_campaigns
			(id, name, subject, body, template_id, smtp_config_id, status,
			 scheduled_at, total_recipients, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, string(c.ID), c.Name, c.Subject, c.Body, c.TemplateID, c.SMTPConfigID,
		string(c.Status), c.ScheduledAt, c.TotalRecipients)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}

	for _, rec := range recipients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO console_recipients (campaign_id, lead_id, email, status)
			VALUES ($1, $2, $3, 'pending')
		`, string(c.ID), string(rec.LeadID), rec.Email)
		if err != nil {
			return fmt.Errorf("create recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, id domain.ID, u domain.CampaignUpdate) (*domain.Campaign, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Subject != nil {
		add("subject", *u.Subject)
	}
	if u.Body != nil {
		add("body", *u.Body)
	}
	if u.TemplateID != nil {
		add("template_id", *u.TemplateID)
	}
	if u.SMTPConfigID != nil {
		add("smtp_config_id", *u.SMTPConfigID)
	}
	if u.ScheduledAt != nil {
		add("scheduled_at", *u.ScheduledAt)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		q := fmt.Sprintf("UPDATE console_campaigns SET %s WHERE id = $%d",
			strings.Join(sets, ", "), idx)
		args = append(args, string(id))

		res, err := r.db.ExecContext(ctx, q, args...)
		if err != nil {
			return nil, fmt.Errorf("update campaign: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return nil, ErrNotFound
		}
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepo) SetStatus(ctx context.Context, id domain.ID, status domain.CampaignStatus) (*domain.Campaign, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE console_campaigns SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, string(status), string(id))
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepo) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM console_campaigns WHERE id = $1
	`, string(id))
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Recipients(ctx context.Context, id domain.ID) ([]domain.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT lead_id, email, status, opened_at, clicked_at, replied_at, bounced_at
		FROM console_recipients
		WHERE campaign_id = $1
		ORDER BY id
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		var opened, clicked, replied, bounced sql.NullTime
		if err := rows.Scan(&rec.LeadID, &rec.Email, &rec.Status,
			&opened, &clicked, &replied, &bounced); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		rec.OpenedAt = nullTimePtr(opened)
		rec.ClickedAt = nullTimePtr(clicked)
		rec.RepliedAt = nullTimePtr(replied)
		rec.BouncedAt = nullTimePtr(bounced)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, requirement_id, name, COALESCE(company,''), COALESCE(title,''),
		       COALESCE(location,''), COALESCE(email,''), email_verified
		FROM console_leads
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.RequirementID, &l.Name, &l.Company,
			&l.Title, &l.Location, &l.Email, &l.EmailVerified); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name FROM console_requirements ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	var out []domain.Requirement
	for rows.Next() {
		var req domain.Requirement
		if err := rows.Scan(&req.ID, &req.Name); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
