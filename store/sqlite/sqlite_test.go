/*
SQLite store tests against an in-memory database: blob upsert semantics,
the (nil, nil) miss contract, user persistence round-trips and the
unique-field lookups registration relies on.
*/
package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/life-ledger/auth"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testUser(id, email, cpf string) auth.User {
	birth, _ := generic.ParseDate("1995-06-15")
	return auth.User{
		ID:           id,
		FirstName:    "Ana",
		LastName:     "Silva",
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		CPF:          cpf,
		BirthDate:    birth,
		CreatedAt:    time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// BLOBS
// =============================================================================

func TestLoadMissingKeyReturnsNil(t *testing.T) {
	st := newTestStore(t)

	blob, err := st.Load(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSaveUpsertsByKey(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "activities", []byte(`[1]`)))
	require.NoError(t, st.Save(ctx, "activities", []byte(`[1,2]`)))

	blob, err := st.Load(ctx, "activities")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2]`), blob)
}

func TestBlobKeysAreIndependent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "a", []byte(`"one"`)))
	require.NoError(t, st.Save(ctx, "b", []byte(`"two"`)))

	blob, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"one"`), blob)
}

// =============================================================================
// USERS
// =============================================================================

func TestUserRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	want := testUser("u1", "ana@example.com", "123.456.789-00")
	require.NoError(t, st.CreateUser(ctx, want))

	got, err := st.UserByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	assert.True(t, got.BirthDate.Equal(want.BirthDate))
	assert.True(t, got.CreatedAt.Equal(want.CreatedAt))
}

func TestUserLookupMissReturnsNil(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, lookup := range []func() (*auth.User, error){
		func() (*auth.User, error) { return st.UserByID(ctx, "nope") },
		func() (*auth.User, error) { return st.UserByEmail(ctx, "nope@example.com") },
		func() (*auth.User, error) { return st.UserByEmailOrCPF(ctx, "nope@example.com", "000") },
	} {
		u, err := lookup()
		require.NoError(t, err)
		assert.Nil(t, u)
	}
}

func TestUserByEmailOrCPFMatchesEitherField(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, testUser("u1", "ana@example.com", "123.456.789-00")))

	byEmail, err := st.UserByEmailOrCPF(ctx, "ana@example.com", "no-such-cpf")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	byCPF, err := st.UserByEmailOrCPF(ctx, "other@example.com", "123.456.789-00")
	require.NoError(t, err)
	require.NotNil(t, byCPF)
	assert.Equal(t, "u1", byCPF.ID)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, testUser("u1", "ana@example.com", "123.456.789-00")))

	err := st.CreateUser(ctx, testUser("u2", "ana@example.com", "987.654.321-00"))
	assert.Error(t, err)
}

// =============================================================================
// RESET
// =============================================================================

func TestResetDropsEverything(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "activities", []byte(`[]`)))
	require.NoError(t, st.CreateUser(ctx, testUser("u1", "ana@example.com", "123.456.789-00")))

	require.NoError(t, st.Reset(ctx))

	blob, err := st.Load(ctx, "activities")
	require.NoError(t, err)
	assert.Nil(t, blob)

	u, err := st.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, u)
}
