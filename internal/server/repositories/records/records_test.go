package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndParseID(t *testing.T) {
	assert.Equal(t, "FGD07", FormatID("FGD", 7))
	assert.Equal(t, "FGV00", FormatID("FGV", 0))
	assert.Equal(t, "FGD123", FormatID("FGD", 123))

	n, err := ParseID("FGD", "FGD07")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = ParseID("FGV", "FGV1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), n)

	for _, bad := range []string{"FGV07", "FGD", "FGDxx", "07", "FGD-1"} {
		_, err := ParseID("FGD", bad)
		assert.Error(t, err, bad)
	}
}

func TestNextID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nextval($1::regclass)`)).
		WithArgs("detection_id_seq").
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(7)))

	id, err := NextID(context.Background(), db, "detection_id_seq", "FGD")
	require.NoError(t, err)
	assert.Equal(t, "FGD07", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextID_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT nextval`).WillReturnError(errors.New("db is down"))

	_, err = NextID(context.Background(), db, "claim_id_seq", "FGV")
	require.ErrorContains(t, err, "db error: db is down")
}

func TestCompactSequence(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT setval\(\$1::regclass,\s+COALESCE\(MAX\(CAST\(SUBSTRING\(id FROM 4\) AS BIGINT\)\), 1\),\s+MAX\(id\) IS NOT NULL\)\s+FROM claims`).
		WithArgs("claim_id_seq").
		WillReturnRows(sqlmock.NewRows([]string{"setval"}).AddRow(int64(3)))

	require.NoError(t, CompactSequence(context.Background(), db, "claims", "claim_id_seq", "FGV"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestJSONList_Value(t *testing.T) {
	models := []string{"bert", "roberta"}
	v, err := JSONList(&models).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["bert","roberta"]`, string(v.([]byte)))

	var none []float64
	v, err = JSONList(&none).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v.([]byte)))
}

func TestJSONList_Scan(t *testing.T) {
	var probs []float64
	require.NoError(t, JSONList(&probs).Scan([]byte(`[0.25, 0.75]`)))
	assert.Equal(t, []float64{0.25, 0.75}, probs)

	var links []string
	require.NoError(t, JSONList(&links).Scan(`["https://a"]`))
	assert.Equal(t, []string{"https://a"}, links)

	var empty []string
	require.NoError(t, JSONList(&empty).Scan(nil))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.Error(t, JSONList(&links).Scan(42))
	assert.Error(t, JSONList(&probs).Scan([]byte(`{"not":"a list"}`)))
}
