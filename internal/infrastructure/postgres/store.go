package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/domain/repository"
)

const uniqueViolation = "23505"

// Store is the durable record store. Uniqueness is enforced by table
// constraints and lead updates are a single UPDATE ... RETURNING.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

// validID guards uuid columns: a malformed id can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Users

const userCols = `id::text, username, password, is_admin, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (s *Store) CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, is_admin)
		VALUES ($1, $2, $3)
		RETURNING `+userCols, in.Username, in.Password, in.IsAdmin))
}

// PromoteUser sets a new password hash and the admin flag on an existing user.
// Used by the seed command.
func (s *Store) PromoteUser(ctx context.Context, username, passwordHash string) (*entity.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET password = $2, is_admin = TRUE
		WHERE username = $1
		RETURNING `+userCols, username, passwordHash))
}

// Newsletter

const subscriptionCols = `id::text, email, subscribed_at, status, source`

func scanSubscription(row pgx.Row) (*entity.NewsletterSubscription, error) {
	sub := &entity.NewsletterSubscription{}
	if err := row.Scan(&sub.ID, &sub.Email, &sub.SubscribedAt, &sub.Status, &sub.Source); err != nil {
		return nil, mapErr(err)
	}
	return sub, nil
}

func (s *Store) CreateNewsletterSubscription(ctx context.Context, in entity.NewSubscription) (*entity.NewsletterSubscription, error) {
	source := in.Source
	if source == "" {
		source = entity.DefaultSubscriptionSource
	}
	return scanSubscription(s.pool.QueryRow(ctx, `
		INSERT INTO newsletter_subscriptions (email, status, source)
		VALUES ($1, $2, $3)
		RETURNING `+subscriptionCols, in.Email, entity.SubscriptionActive, source))
}

func (s *Store) GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*entity.NewsletterSubscription, error) {
	return scanSubscription(s.pool.QueryRow(ctx,
		`SELECT `+subscriptionCols+` FROM newsletter_subscriptions WHERE email = $1`, email))
}

func (s *Store) GetAllNewsletterSubscriptions(ctx context.Context) ([]entity.NewsletterSubscription, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriptionCols+` FROM newsletter_subscriptions ORDER BY subscribed_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.NewsletterSubscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

// Leads

const leadCols = `id::text, email, name, phone, message, source, status, notes, created_at, updated_at, contacted_at`

const leadOrder = ` ORDER BY created_at DESC, id DESC`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	l := &entity.Lead{}
	if err := row.Scan(&l.ID, &l.Email, &l.Name, &l.Phone, &l.Message, &l.Source, &l.Status,
		&l.Notes, &l.CreatedAt, &l.UpdatedAt, &l.ContactedAt); err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

func (s *Store) queryLeads(ctx context.Context, sql string, args ...any) ([]entity.Lead, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) CreateLead(ctx context.Context, in entity.NewLead) (*entity.Lead, error) {
	return scanLead(s.pool.QueryRow(ctx, `
		INSERT INTO leads (email, name, phone, message, source, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leadCols, in.Email, in.Name, in.Phone, in.Message, in.Source, entity.StatusNew))
}

func (s *Store) GetAllLeads(ctx context.Context) ([]entity.Lead, error) {
	return s.queryLeads(ctx, `SELECT `+leadCols+` FROM leads`+leadOrder)
}

func (s *Store) GetLeadByID(ctx context.Context, id string) (*entity.Lead, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanLead(s.pool.QueryRow(ctx, `SELECT `+leadCols+` FROM leads WHERE id = $1`, id))
}

func (s *Store) UpdateLead(ctx context.Context, id string, u entity.LeadUpdate) (*entity.Lead, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	var status *string
	if u.Status != nil {
		v := string(*u.Status)
		status = &v
	}
	return scanLead(s.pool.QueryRow(ctx, `
		UPDATE leads SET
			status       = COALESCE($2::varchar, status),
			notes        = CASE WHEN $3 THEN $4::text ELSE notes END,
			contacted_at = CASE WHEN $5 THEN $6::timestamptz ELSE contacted_at END,
			updated_at   = GREATEST(now(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING `+leadCols,
		id, status, u.Notes.Set, u.Notes.Value, u.ContactedAt.Set, u.ContactedAt.Value))
}

func (s *Store) GetLeadsByStatus(ctx context.Context, status entity.LeadStatus) ([]entity.Lead, error) {
	return s.queryLeads(ctx, `SELECT `+leadCols+` FROM leads WHERE status = $1`+leadOrder, status)
}

func (s *Store) GetLeadsBySource(ctx context.Context, source entity.LeadSource) ([]entity.Lead, error) {
	return s.queryLeads(ctx, `SELECT `+leadCols+` FROM leads WHERE source = $1`+leadOrder, source)
}

func (s *Store) SearchLeads(ctx context.Context, term string) ([]entity.Lead, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.GetAllLeads(ctx)
	}
	pattern := "%" + escapeLike(term) + "%"
	return s.queryLeads(ctx, `SELECT `+leadCols+` FROM leads
		WHERE email ILIKE $1 OR name ILIKE $1 OR phone LIKE $1`+leadOrder, pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

var _ repository.Store = (*Store)(nil)
