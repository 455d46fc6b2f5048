package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-api/internal/database"
	"user-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeRow 實作 pgx.Row，依 dest 數量模擬不同查詢
type fakeRow struct {
	scanErr error
	user    *model.User
	count   int64
	exists  bool
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 6:
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*time.Time) = u.CreatedAt
		*dest[5].(*time.Time) = u.UpdatedAt
	case 3:
		// CreateUser: id, created_at, updated_at
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
		*dest[2].(*time.Time) = u.UpdatedAt
	case 1:
		switch d := dest[0].(type) {
		case *int64:
			*d = r.count
		case *bool:
			*d = r.exists
		default:
			panic("fakeRow.Scan: unexpected dest type")
		}
	default:
		panic("fakeRow.Scan: unexpected number of dest")
	}
	return nil
}

// fakeRows 實作 pgx.Rows
type fakeRows struct {
	data    []model.User
	idx     int
	scanErr error
	err     error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := &fakeRow{user: &r.data[r.idx]}
	r.idx++
	return row.Scan(dest...)
}
func (r *fakeRows) Values() ([]any, error) { return nil, nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

func rowDB(row *fakeRow) *database.FakeDB {
	return &database.FakeDB{
		QueryRowFn: func(context.Context, string, ...any) pgx.Row { return row },
	}
}

func strp(s string) *string { return &s }

/* ---------- 測試 ---------- */

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sample := model.User{ID: 1, Name: "Ann", Email: "ann@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}

	got, err := GetUserByID(ctx, rowDB(&fakeRow{user: &sample}), 1)
	require.NoError(t, err)
	require.Equal(t, sample, *got)

	got, err = GetUserByEmail(ctx, rowDB(&fakeRow{user: &sample}), "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, sample.Email, got.Email)

	got, err = GetUserByID(ctx, rowDB(&fakeRow{scanErr: pgx.ErrNoRows}), 1)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = GetUserByEmail(ctx, rowDB(&fakeRow{scanErr: pgx.ErrNoRows}), "x@example.com")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = GetUserByID(ctx, rowDB(&fakeRow{scanErr: errors.New("boom")}), 1)
	require.ErrorContains(t, err, "GetUserByID")
	_, err = GetUserByEmail(ctx, rowDB(&fakeRow{scanErr: errors.New("boom")}), "a")
	require.ErrorContains(t, err, "GetUserByEmail")
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	data := []model.User{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	rows := &fakeRows{data: data}
	db := &database.FakeDB{QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		require.Contains(t, sql, "ORDER BY id")
		return rows, nil
	}}
	users, err := ListUsers(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.True(t, rows.closed)

	var gotArgs []any
	db.QueryFn = func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		gotArgs = args
		return &fakeRows{}, nil
	}
	users, err = ListUsersPage(ctx, db, 15, 30)
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)
	require.Equal(t, []any{15, 30}, gotArgs)

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, errors.New("q") }
	_, err = ListUsers(ctx, db)
	require.ErrorContains(t, err, "ListUsers")
	_, err = ListUsersPage(ctx, db, 1, 0)
	require.ErrorContains(t, err, "ListUsersPage")

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{data: data, scanErr: errors.New("scan")}, nil
	}
	_, err = ListUsers(ctx, db)
	require.ErrorContains(t, err, "scan")

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{err: errors.New("iter")}, nil
	}
	_, err = ListUsersPage(ctx, db, 1, 0)
	require.ErrorContains(t, err, "iter")
}

func TestCountUsersAndExists(t *testing.T) {
	ctx := context.Background()
	n, err := CountUsers(ctx, rowDB(&fakeRow{count: 42}))
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
	_, err = CountUsers(ctx, rowDB(&fakeRow{scanErr: errors.New("x")}))
	require.ErrorContains(t, err, "CountUsers")

	ok, err := UserExists(ctx, rowDB(&fakeRow{exists: true}), 1)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = UserExists(ctx, rowDB(&fakeRow{scanErr: errors.New("x")}), 1)
	require.ErrorContains(t, err, "UserExists")
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := CreateUser(ctx, rowDB(&fakeRow{user: &model.User{ID: 7, CreatedAt: now, UpdatedAt: now}}),
		&model.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	require.Equal(t, 7, u.ID)
	require.Equal(t, "Ann", u.Name)
	require.Equal(t, now, u.CreatedAt)

	_, err = CreateUser(ctx, rowDB(&fakeRow{scanErr: &pgconn.PgError{Code: "23505"}}), &model.User{})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = CreateUser(ctx, rowDB(&fakeRow{scanErr: errors.New("boom")}), &model.User{})
	require.ErrorContains(t, err, "CreateUser")
	require.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	var gotSQL string
	var gotArgs []any
	db := &database.FakeDB{ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		gotSQL, gotArgs = sql, args
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}}
	ok, err := UpdateUser(ctx, db, 3, model.UserUpdate{Name: strp("New"), PasswordHash: strp("h2")})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "UPDATE users SET name = $1, password_hash = $2, updated_at = NOW() WHERE id = $3", gotSQL)
	require.Equal(t, []any{"New", "h2", 3}, gotArgs)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	ok, err = UpdateUser(ctx, db, 3, model.UserUpdate{Email: strp("x@example.com")})
	require.NoError(t, err)
	require.False(t, ok)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
	}
	_, err = UpdateUser(ctx, db, 3, model.UserUpdate{Email: strp("x@example.com")})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// 沒有欄位時只確認資料是否存在
	ok, err = UpdateUser(ctx, rowDB(&fakeRow{exists: true}), 3, model.UserUpdate{})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("DELETE 1"), nil
	}}
	ok, err := DeleteUser(ctx, db, 1)
	require.NoError(t, err)
	require.True(t, ok)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	ok, err = DeleteUser(ctx, db, 1)
	require.NoError(t, err)
	require.False(t, ok)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("x")
	}
	_, err = DeleteUser(ctx, db, 1)
	require.ErrorContains(t, err, "DeleteUser")
}
