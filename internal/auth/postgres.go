package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sustainwear.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Open connects to PostgreSQL with pool defaults tuned for a small API
// instance.
func Open(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PGStore{db: db}, nil
}

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) DB() *sql.DB { return s.db }

func (s *PGStore) Users(context.Context) UserStore                 { return &userStore{db: s.db} }
func (s *PGStore) Organisations(context.Context) OrganisationStore { return &orgStore{db: s.db} }
func (s *PGStore) Audit(context.Context) AuditStore                { return &auditStore{db: s.db} }

// User store ---------------------------------------------------------------
type userStore struct{ db *sql.DB }

const userColumns = `user_id, first_name, last_name, email, password, role, is_active, sign_up_date`

func (s *userStore) Create(ctx context.Context, u *User) error {
	if u.SignedUpAt.IsZero() {
		u.SignedUpAt = time.Now().UTC()
	}
	err := s.db.QueryRowContext(ctx,
		`insert into users(first_name, last_name, email, password, role, sign_up_date)
		 values($1,$2,$3,$4,$5,$6) returning user_id`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.SignedUpAt,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email", ErrAlreadyExists)
	}
	return err
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.SignedUpAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userStore) Find(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where user_id=$1`, id))
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email))
}

func (s *userStore) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userStore) Update(ctx context.Context, id int64, upd UserUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`update users set role=$1, is_active=$2 where user_id=$3`,
		upd.Role, upd.Active, id)
	return oneRowAffected(res, err)
}

func (s *userStore) UpdateName(ctx context.Context, id int64, first, last string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set first_name=$1, last_name=$2 where user_id=$3`,
		first, last, id)
	return oneRowAffected(res, err)
}

func (s *userStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password=$1 where user_id=$2`, passwordHash, id)
	return oneRowAffected(res, err)
}

func (s *userStore) PromoteDonorToStaff(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`update users set role=$1 where user_id=$2 and role=$3`,
		RoleStaff, id, RoleDonor)
	return err
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from users where user_id=$1`, id)
	return oneRowAffected(res, err)
}

// Organisation store -------------------------------------------------------
type orgStore struct{ db *sql.DB }

func (s *orgStore) Create(ctx context.Context, org *Organisation) error {
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	var manager sql.NullInt64
	if org.ManagerID != 0 {
		manager = sql.NullInt64{Int64: org.ManagerID, Valid: true}
	}
	err := s.db.QueryRowContext(ctx,
		`insert into organisations(name, description, street_name, post_code, city, contact_email, is_active, created_at, manager_id)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9) returning org_id`,
		org.Name, org.Description, org.StreetName, org.PostCode, org.City,
		org.ContactEmail, org.Active, org.CreatedAt, manager,
	).Scan(&org.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: organisation name", ErrAlreadyExists)
	}
	return err
}

const orgSelect = `
	select o.org_id, o.name, o.description, o.street_name, o.post_code, o.city,
	       o.contact_email, o.is_active, o.created_at, o.manager_id,
	       coalesce(u.first_name || ' ' || u.last_name, '') as manager_name
	from organisations o
	left join users u on u.user_id = o.manager_id`

func scanOrg(row interface{ Scan(...any) error }) (*Organisation, error) {
	var (
		org     Organisation
		manager sql.NullInt64
	)
	err := row.Scan(&org.ID, &org.Name, &org.Description, &org.StreetName,
		&org.PostCode, &org.City, &org.ContactEmail, &org.Active,
		&org.CreatedAt, &manager, &org.ManagerName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if manager.Valid {
		org.ManagerID = manager.Int64
	}
	return &org, nil
}

func (s *orgStore) Find(ctx context.Context, id int64) (*Organisation, error) {
	return scanOrg(s.db.QueryRowContext(ctx, orgSelect+` where o.org_id=$1`, id))
}

func (s *orgStore) List(ctx context.Context) ([]*Organisation, error) {
	rows, err := s.db.QueryContext(ctx, orgSelect+` order by o.created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*Organisation
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (s *orgStore) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`update organisations set is_active=$1 where org_id=$2`, active, id)
	return oneRowAffected(res, err)
}

func (s *orgStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from inventory where org_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `delete from organisations where org_id=$1`, id)
	if err := oneRowAffected(res, err); err != nil {
		return err
	}
	return tx.Commit()
}

// Audit store --------------------------------------------------------------
type auditStore struct{ db *sql.DB }

func (s *auditStore) Append(ctx context.Context, entry *AuditEntry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into audit_log(id, admin_id, action, target_user_id, target_org_id, occurred_at)
		 values($1,$2,$3,nullif($4,0),nullif($5,0),$6)`,
		entry.ID, entry.AdminID, entry.Action, entry.TargetUser, entry.TargetOrg, entry.OccurredAt)
	return err
}

func (s *auditStore) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx,
		`select id, admin_id, action, coalesce(target_user_id,0), coalesce(target_org_id,0), occurred_at
		 from audit_log order by occurred_at desc limit $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.AdminID, &e.Action, &e.TargetUser, &e.TargetOrg, &e.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func oneRowAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
