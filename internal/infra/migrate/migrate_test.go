package migrate

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource_EmbedsUsersMigration(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	require.Equal(t, "create_f_users", ident)

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	sql := string(body)
	require.Contains(t, sql, "CREATE TABLE IF NOT EXISTS f_users")
	require.Contains(t, sql, "hashed_password")
	require.True(t, strings.Contains(sql, "ix_users_email") && strings.Contains(sql, "ix_users_username"))

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
}
