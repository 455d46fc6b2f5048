package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"user-api/internal/database"
	"user-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail 表示 email 已被其他使用者使用 (users_email_unique)
var ErrDuplicateEmail = errors.New("email already taken")

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// GetUserByID 查無資料時回傳 nil, nil
func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

// GetUserByEmail 查無資料時回傳 nil, nil
func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func collectUsers(op string, rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return users, nil
}

func ListUsers(ctx context.Context, db database.Querier) ([]model.User, error) {
	rows, err := db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return collectUsers("ListUsers", rows)
}

func ListUsersPage(ctx context.Context, db database.Querier, limit, offset int) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUsersPage: %w", err)
	}
	return collectUsers("ListUsersPage", rows)
}

func CountUsers(ctx context.Context, db database.Querier) (int64, error) {
	var n int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return n, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate("CreateUser", err)
	}
	return u, nil
}

// UpdateUser 只更新非 nil 欄位，回傳是否有資料列被更新
func UpdateUser(ctx context.Context, db database.Querier, userID int, upd model.UserUpdate) (bool, error) {
	if upd.IsEmpty() {
		return UserExists(ctx, db, userID)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	add("name", upd.Name)
	add("email", upd.Email)
	add("password_hash", upd.PasswordHash)
	sets = append(sets, "updated_at = NOW()")
	args = append(args, userID)

	tag, err := db.Exec(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = $`+strconv.Itoa(len(args)),
		args...,
	)
	if err != nil {
		return false, translate("UpdateUser", err)
	}
	return tag.RowsAffected() > 0, nil
}

func UserExists(ctx context.Context, db database.Querier, userID int) (bool, error) {
	var ok bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		userID,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return ok, nil
}

// DeleteUser 回傳是否有資料列被刪除
func DeleteUser(ctx context.Context, db database.Querier, userID int) (bool, error) {
	tag, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("DeleteUser: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
