package model

import "time"

// Account represents a row of the `user` table.  Rows are provisioned by the
// administrative flows; the auth service only ever writes OTP and
// OTPExpiry.  Nullable columns are pointers so handlers can render them
// as JSON null.
//
// Fields:
//
//	ID            – user.userId, primary key.
//	ParentID      – user.parentId, the family head this member belongs to.
//	ContactNumber – user.contactNumber, unique login handle.
//	Email         – user.email, carried as the secondary token claim.
//	UserType      – user.userType (admin, family head, member).
//	OTP           – user.otp, last issued one-time password (nullable).
//	OTPExpiry     – user.otp_expiry, validity end of OTP (nullable).
//	Status        – user.status (1 active, 0 inactive, 2 deleted).
type Account struct {
	ID            uint64
	ParentID      *uint64
	FirstName     *string
	LastName      *string
	ContactNumber string
	Email         *string
	Age           *int
	Gender        *string
	BloodGroup    *string
	Education     *string
	Address       *string
	CountryID     *uint64
	StateID       *uint64
	CityID        *uint64
	UserType      string
	Photo         *string
	DateOfBirth   *time.Time
	OTP           *string
	OTPExpiry     *time.Time
	Status        int
	CreatedDate   *time.Time
	UpdatedDate   *time.Time
}

// EmailClaim returns the email for token claims, empty when unset.
func (a Account) EmailClaim() string {
	if a.Email == nil {
		return ""
	}
	return *a.Email
}

// AccountProfile is an Account joined with the display names of its
// country, state and city.  Any of the names may be nil when the reference
// is unset or points at a missing row.
type AccountProfile struct {
	Account
	CountryName *string
	StateName   *string
	CityName    *string
}

// User types recognised by the role gate.
const (
	UserTypeAdmin      = "admin"
	UserTypeFamilyHead = "family head"
	UserTypeMember     = "member"
)

// Status values of user, state and city rows.
const (
	StatusInactive = 0
	StatusActive   = 1
	StatusDeleted  = 2
)
