package repositories

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

// recordingExecutor captures executed statements so repository SQL can be
// checked without a live database. Only Exec is backed; the query methods
// are never reached by the tests using it.
type recordingExecutor struct {
	statements     []string
	deleteAffected int64
}

func (e *recordingExecutor) Exec(query string, args ...interface{}) (sql.Result, error) {
	e.statements = append(e.statements, query)
	if strings.HasPrefix(strings.TrimSpace(query), "DELETE") {
		return fakeResult{rowsAffected: e.deleteAffected}, nil
	}
	return fakeResult{rowsAffected: 1}, nil
}

func (e *recordingExecutor) QueryRow(query string, args ...interface{}) *sql.Row {
	panic("unexpected QueryRow: " + query)
}

func (e *recordingExecutor) Query(query string, args ...interface{}) (*sql.Rows, error) {
	panic("unexpected Query: " + query)
}

func TestPostSelectKeepsColumnsSeparateFromJoin(t *testing.T) {
	// GetPosts appends the total_count window column after postSelect, so
	// postSelect must end with the select list. A FROM clause inside it
	// would put the window function into the FROM list, which Postgres
	// rejects.
	assert.NotContains(t, postSelect, "FROM")
	assert.Contains(t, postFrom, "FROM feed_posts fp")
	assert.Contains(t, postFrom, "JOIN users u ON fp.author_id = u.id")
}

func TestToggleLikeAddsLikeWhenNoneExists(t *testing.T) {
	exec := &recordingExecutor{}
	repo := NewFeedRepository(nil)

	liked, err := repo.ToggleLike(exec, 5, 9)

	require.NoError(t, err)
	assert.True(t, liked)
	require.Len(t, exec.statements, 2)
	assert.Contains(t, exec.statements[0], "DELETE FROM feed_likes")
	assert.Contains(t, exec.statements[1], "INSERT INTO feed_likes")
	assert.Contains(t, exec.statements[1], "ON CONFLICT (post_id, user_id) DO NOTHING")
}

func TestToggleLikeRemovesExistingLike(t *testing.T) {
	exec := &recordingExecutor{deleteAffected: 1}
	repo := NewFeedRepository(nil)

	liked, err := repo.ToggleLike(exec, 5, 9)

	require.NoError(t, err)
	assert.False(t, liked)
	require.Len(t, exec.statements, 1)
	assert.Contains(t, exec.statements[0], "DELETE FROM feed_likes")
}
