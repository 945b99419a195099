package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/crudusers/user-admin/internal/core/domain"
)

// Every statement goes through a stored procedure created by the embedded
// migrations.
const (
	callAuthLogin       = "CALL sp_auth_login(?, ?)"
	callFind            = "CALL sp_users_find(?)"
	callUpdateLastLogin = "CALL sp_users_update_last_login(?)"
	callList            = "CALL sp_users_list()"
	callInsert          = "CALL sp_users_insert(?, ?, ?, ?, ?, ?, @new_id)"
	selectNewID         = "SELECT @new_id"
	callUpdate          = "CALL sp_users_update(?, ?, ?, ?, ?)"
	callDelete          = "CALL sp_users_delete(?)"
	callSetBlocked      = "CALL sp_users_set_blocked(?, ?)"
)

const errDuplicateEntry = 1062

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, callAuthLogin, username, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("auth login: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, callFind, id))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, callUpdateLastLogin, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, callList)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Insert runs sp_users_insert and reads the OUT parameter back. Both calls
// must share one connection because @new_id is a session variable.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User, passwordHash string, createdBy *int64) (int64, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, callInsert,
		user.Username,
		user.DisplayName,
		nullString(user.Email),
		passwordHash,
		int(user.Role),
		nullInt64(createdBy),
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrUserExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	var id sql.NullInt64
	if err := conn.QueryRowContext(ctx, selectNewID).Scan(&id); err != nil {
		return 0, fmt.Errorf("read new id: %w", err)
	}
	if !id.Valid {
		return 0, errors.New("insert user: no id returned")
	}
	return id.Int64, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, displayName string, email *string, role domain.Role, passwordHash *string) error {
	_, err := r.db.ExecContext(ctx, callUpdate, id, displayName, nullString(email), int(role), nullString(passwordHash))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, callDelete, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	if _, err := r.db.ExecContext(ctx, callSetBlocked, id, blocked); err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads the column order shared by every user-returning procedure.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		email     sql.NullString
		role      int64
		createdAt sql.NullTime
		createdBy sql.NullInt64
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &email, &role, &u.IsBlocked, &createdAt, &createdBy, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	u.Role = domain.Role(role)
	if email.Valid {
		u.Email = &email.String
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		u.CreatedAt = &t
	}
	if createdBy.Valid {
		u.CreatedBy = &createdBy.Int64
	}
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLoginAt = &t
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}
