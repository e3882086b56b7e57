package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var accountCols = []string{"userId", "parentId", "firstName", "lastName", "contactNumber", "email",
	"age", "gender", "bloodGroup", "education", "address", "countryId", "stateId", "cityId",
	"userType", "photo", "dateOfBirth", "otp", "otp_expiry", "status", "createdDate", "updatedDate"}

var profileCols = append(append([]string{}, accountCols...), "countryName", "stateName", "cityName")

// accountValues returns a full row for contact 8888888888 with the given otp/expiry.
func accountValues(otp any, expiry any) []driver.Value {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []driver.Value{int64(7), nil, "Asha", "Patel", "8888888888", "asha@example.com",
		int64(34), "female", "O+", "MBA", "12 Park Street", int64(1), int64(10), int64(100),
		"family head", nil, nil, otp, expiry, int64(1), created, created}
}
