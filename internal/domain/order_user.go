package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderUser is a buyer's shipping target.
type OrderUser struct {
	ID      uuid.UUID
	BuyerID string
	PhoneNo string
	Address string
	City    string
	State   string
	Pincode string

	CreatedAt time.Time
}

func (u OrderUser) Validate() error {
	if !isDigits(u.PhoneNo) || len(u.PhoneNo) < 10 || len(u.PhoneNo) > 15 {
		return fmt.Errorf("%w: phone number must be 10 to 15 digits", ErrInvalidInput)
	}
	if u.Pincode != "" && (!isDigits(u.Pincode) || len(u.Pincode) != 6) {
		return fmt.Errorf("%w: pincode must be 6 digits", ErrInvalidInput)
	}
	if u.Address == "" {
		return fmt.Errorf("%w: address is empty", ErrInvalidInput)
	}

	return nil
}

// OrderUserUpdate carries the fields of a partial change. Nil fields are left as
// they are.
type OrderUserUpdate struct {
	PhoneNo *string
	Address *string
	City    *string
	State   *string
	Pincode *string
}

func (u OrderUserUpdate) IsEmpty() bool {
	return u.PhoneNo == nil && u.Address == nil && u.City == nil && u.State == nil && u.Pincode == nil
}

func (u *OrderUser) Apply(update OrderUserUpdate) {
	if update.PhoneNo != nil {
		u.PhoneNo = *update.PhoneNo
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.City != nil {
		u.City = *update.City
	}
	if update.State != nil {
		u.State = *update.State
	}
	if update.Pincode != nil {
		u.Pincode = *update.Pincode
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
