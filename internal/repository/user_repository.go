package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/communet/communet-api/internal/model"
)

// AccountRepo is the MySQL directory store over the `user` table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = `u.userId, u.parentId, u.firstName, u.lastName, u.contactNumber, u.email,
	u.age, u.gender, u.bloodGroup, u.education, u.address, u.countryId, u.stateId, u.cityId,
	u.userType, u.photo, u.dateOfBirth, u.otp, u.otp_expiry, u.status, u.createdDate, u.updatedDate`

const profileSelect = `SELECT ` + accountColumns + `,
	country.name AS countryName, state.name AS stateName, city.name AS cityName
FROM ` + "`user`" + ` u
LEFT JOIN country ON u.countryId = country.countryId
LEFT JOIN state ON u.stateId = state.stateId
LEFT JOIN city ON u.cityId = city.cityId`

// Deleted accounts (status 2) are never eligible for authentication.
const eligible = `u.status <> 2`

// GetByContactNumber returns the account that owns the phone number.
func (r *AccountRepo) GetByContactNumber(ctx context.Context, contactNumber string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM `user` u WHERE u.contactNumber=? AND "+eligible+" LIMIT 1",
		contactNumber)
	a, err := scanAccount(row)
	if err != nil {
		return model.Account{}, notFound(err, "get account by contact number")
	}
	return a, nil
}

// GetProfileByContactNumber returns the account joined with its geography names.
func (r *AccountRepo) GetProfileByContactNumber(ctx context.Context, contactNumber string) (model.AccountProfile, error) {
	row := r.DB.QueryRowContext(ctx,
		profileSelect+" WHERE u.contactNumber=? AND "+eligible+" LIMIT 1", contactNumber)
	p, err := scanProfile(row)
	if err != nil {
		return model.AccountProfile{}, notFound(err, "get profile by contact number")
	}
	return p, nil
}

// GetProfileByID returns the account with the given id joined with its geography names.
func (r *AccountRepo) GetProfileByID(ctx context.Context, id uint64) (model.AccountProfile, error) {
	row := r.DB.QueryRowContext(ctx, profileSelect+" WHERE u.userId=? LIMIT 1", id)
	p, err := scanProfile(row)
	if err != nil {
		return model.AccountProfile{}, notFound(err, "get profile by id")
	}
	return p, nil
}

// UserType returns the role attribute of an account.
func (r *AccountRepo) UserType(ctx context.Context, id uint64) (string, error) {
	var userType sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT userType FROM `user` WHERE userId=? LIMIT 1", id).Scan(&userType)
	if err != nil {
		return "", notFound(err, "get user type")
	}
	return userType.String, nil
}

// SetOTP stores the OTP and its expiry on the account, overwriting any
// previous value.
func (r *AccountRepo) SetOTP(ctx context.Context, contactNumber, otp string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE `user` SET otp=?, otp_expiry=? WHERE contactNumber=?",
		otp, expiry.UTC(), contactNumber)
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// ListActive returns every account that is not soft-deleted, newest first,
// joined with its geography names.  A non-nil parentID restricts the list to
// the members of that family head.
func (r *AccountRepo) ListActive(ctx context.Context, parentID *uint64) ([]model.AccountProfile, error) {
	q := profileSelect + " WHERE " + eligible
	var args []any
	if parentID != nil {
		q += " AND u.parentId = ?"
		args = append(args, *parentID)
	}
	rows, err := r.DB.QueryContext(ctx, q+" ORDER BY u.userId DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	out := []model.AccountProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// accountRow holds the nullable scan targets for accountColumns.
type accountRow struct {
	id                                       uint64
	contactNumber                            string
	parentID, age, countryID, stateID, city  sql.NullInt64
	firstName, lastName, email, gender       sql.NullString
	bloodGroup, education, address, userType sql.NullString
	photo, otp                               sql.NullString
	dob, otpExpiry, created, updated         sql.NullTime
	status                                   sql.NullInt64
}

func (r *accountRow) targets() []any {
	return []any{&r.id, &r.parentID, &r.firstName, &r.lastName, &r.contactNumber, &r.email,
		&r.age, &r.gender, &r.bloodGroup, &r.education, &r.address, &r.countryID, &r.stateID, &r.city,
		&r.userType, &r.photo, &r.dob, &r.otp, &r.otpExpiry, &r.status, &r.created, &r.updated}
}

func (r *accountRow) account() model.Account {
	a := model.Account{
		ID:            r.id,
		ParentID:      uintPtr(r.parentID),
		FirstName:     strPtr(r.firstName),
		LastName:      strPtr(r.lastName),
		ContactNumber: r.contactNumber,
		Email:         strPtr(r.email),
		Gender:        strPtr(r.gender),
		BloodGroup:    strPtr(r.bloodGroup),
		Education:     strPtr(r.education),
		Address:       strPtr(r.address),
		CountryID:     uintPtr(r.countryID),
		StateID:       uintPtr(r.stateID),
		CityID:        uintPtr(r.city),
		UserType:      r.userType.String,
		Photo:         strPtr(r.photo),
		DateOfBirth:   timePtr(r.dob),
		OTP:           strPtr(r.otp),
		OTPExpiry:     timePtr(r.otpExpiry),
		Status:        int(r.status.Int64),
		CreatedDate:   timePtr(r.created),
		UpdatedDate:   timePtr(r.updated),
	}
	if r.age.Valid {
		age := int(r.age.Int64)
		a.Age = &age
	}
	return a
}

func scanAccount(s scanner) (model.Account, error) {
	var r accountRow
	if err := s.Scan(r.targets()...); err != nil {
		return model.Account{}, err
	}
	return r.account(), nil
}

func scanProfile(s scanner) (model.AccountProfile, error) {
	var (
		r                        accountRow
		country, state, cityName sql.NullString
	)
	if err := s.Scan(append(r.targets(), &country, &state, &cityName)...); err != nil {
		return model.AccountProfile{}, err
	}
	return model.AccountProfile{
		Account:     r.account(),
		CountryName: strPtr(country),
		StateName:   strPtr(state),
		CityName:    strPtr(cityName),
	}, nil
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps everything else.
func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func uintPtr(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	n := uint64(v.Int64)
	return &n
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
