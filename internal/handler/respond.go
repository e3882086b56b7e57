package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/communet/communet-api/internal/model"
	"github.com/communet/communet-api/internal/utils"
)

// fail writes the API's error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg, "status": "false"})
}

// looseString accepts a JSON string or number.  Mobile clients send both
// for contactNumber and otp.
type looseString struct {
	Value   string
	Numeric bool
}

func (l *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = looseString{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = looseString{Value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*l = looseString{Value: n.String(), Numeric: true}
	return nil
}

// otpText renders a submitted OTP.  A numeric OTP loses its leading zeros
// in transit, so integers are padded back to the OTP length.  A numeric 0
// counts as missing, as does an empty string.
func otpText(l looseString) string {
	if !l.Numeric {
		return l.Value
	}
	n, err := json.Number(l.Value).Float64()
	switch {
	case err != nil:
		return l.Value
	case n == 0:
		return ""
	}
	if i, err := json.Number(l.Value).Int64(); err == nil && i > 0 {
		return fmt.Sprintf("%0*d", utils.OTPLength, i)
	}
	return l.Value
}

// userView is the public JSON shape of an account.  OTP columns are never
// part of it.
type userView struct {
	UserID        uint64     `json:"userId"`
	ParentID      *uint64    `json:"parentId"`
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	ContactNumber string     `json:"contactNumber"`
	Email         *string    `json:"email"`
	Age           *int       `json:"age"`
	Gender        *string    `json:"gender"`
	BloodGroup    *string    `json:"bloodGroup"`
	Education     *string    `json:"education"`
	Address       *string    `json:"address"`
	CountryID     *uint64    `json:"countryId"`
	StateID       *uint64    `json:"stateId"`
	CityID        *uint64    `json:"cityId"`
	CreatedDate   *time.Time `json:"createdDate"`
	UpdatedDate   *time.Time `json:"updatedDate"`
	UserType      string     `json:"userType"`
	Status        int        `json:"status"`
	Photo         *string    `json:"photo"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	CountryName   *string    `json:"countryName"`
	StateName     *string    `json:"stateName"`
	CityName      *string    `json:"cityName"`
}

func newUserView(p model.AccountProfile) userView {
	return userView{
		UserID:        p.ID,
		ParentID:      p.ParentID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
		Age:           p.Age,
		Gender:        p.Gender,
		BloodGroup:    p.BloodGroup,
		Education:     p.Education,
		Address:       p.Address,
		CountryID:     p.CountryID,
		StateID:       p.StateID,
		CityID:        p.CityID,
		CreatedDate:   p.CreatedDate,
		UpdatedDate:   p.UpdatedDate,
		UserType:      p.UserType,
		Status:        p.Status,
		Photo:         p.Photo,
		DateOfBirth:   p.DateOfBirth,
		CountryName:   p.CountryName,
		StateName:     p.StateName,
		CityName:      p.CityName,
	}
}
