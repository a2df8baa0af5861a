package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageRows(ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "conversation_id", "sender_id", "content", "message_type", "status",
		"attachments", "reply_to", "is_edited", "edited_at", "original_content",
		"is_deleted", "deleted_at", "deleted_by", "ip_address", "user_agent", "created_at",
	})
	for _, id := range ids {
		rows.AddRow(id, 5, 1, "hello", "text", "sent",
			nil, nil, false, nil, nil,
			false, nil, nil, "", "", time.Now())
	}
	return rows
}

// Listings never surface deleted messages; the filter lives in the query.
func TestListPageExcludesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(`FROM messages\s+WHERE conversation_id=\$1 AND is_deleted = FALSE\s+ORDER BY created_at DESC, id DESC`).
		WithArgs(5, 50, 0).
		WillReturnRows(messageRows(11, 10))

	msgs, err := repo.ListPage(context.Background(), 5, 1, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Deletion flips flags only. The content column is untouched, so the row
// stays auditable after removal.
func TestSoftDeleteRetainsContent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectExec(`UPDATE messages\s+SET is_deleted = TRUE, deleted_at = NOW\(\), deleted_by = \$2\s+WHERE id=\$1 AND is_deleted = FALSE`).
		WithArgs(42, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(context.Background(), 42, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteAlreadyDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectExec(`SET is_deleted = TRUE`).
		WithArgs(42, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 42, 3)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The original content is snapshotted via COALESCE so only the first edit
// records it; the sender guard is part of the statement.
func TestEditSnapshotsOriginalOnce(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(`SET original_content = COALESCE\(original_content, content\),\s+content = \$3,\s+is_edited = TRUE,\s+edited_at = NOW\(\)\s+WHERE id=\$1 AND sender_id=\$2 AND is_deleted = FALSE`).
		WithArgs(42, 1, "revised").
		WillReturnRows(messageRows(42))

	msg, err := repo.Edit(context.Background(), 42, 1, "revised")
	require.NoError(t, err)
	assert.Equal(t, 42, msg.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditWrongSender(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(`WHERE id=\$1 AND sender_id=\$2 AND is_deleted = FALSE`).
		WithArgs(42, 9, "revised").
		WillReturnRows(messageRows())

	_, err := repo.Edit(context.Background(), 42, 9, "revised")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsDeletedMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepo(db)

	rows := sqlmock.NewRows([]string{
		"id", "conversation_id", "sender_id", "content", "message_type", "status",
		"attachments", "reply_to", "is_edited", "edited_at", "original_content",
		"is_deleted", "deleted_at", "deleted_by", "ip_address", "user_agent", "created_at",
	}).AddRow(42, 5, 1, "hello", "text", "sent",
		nil, nil, false, nil, nil,
		true, time.Now(), 3, "", "", time.Now())
	mock.ExpectQuery(`FROM messages WHERE id=\$1`).
		WithArgs(42).
		WillReturnRows(rows)

	msg, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, msg.IsDeleted)
	assert.Equal(t, "hello", msg.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
