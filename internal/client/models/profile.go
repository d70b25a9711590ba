package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/campuslink/internal/common"
)

var ErrInvalidDocument = errors.New("invalid profile document")

// Document field names used on the wire.
const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldNationality     = "nationality"
	FieldUniversity      = "university"
	FieldProgram         = "program"
	FieldYearOfStudy     = "yearOfStudy"
	FieldInterests       = "interests"
	FieldProfileComplete = "profileComplete"
)

// Profile is the mutable extended record keyed by Identity.ID.
type Profile struct {
	UserID          string    `json:"-"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Nationality     string    `json:"nationality"`
	University      string    `json:"university"`
	Program         string    `json:"program"`
	YearOfStudy     int       `json:"yearOfStudy"`
	Interests       []string  `json:"interests"`
	ProfileComplete bool      `json:"profileComplete"`
	UpdatedAt       time.Time `json:"-"`
}

func (p Profile) Clone() Profile {
	out := p
	if p.Interests != nil {
		out.Interests = append([]string(nil), p.Interests...)
	}
	return out
}

// AsUpdate turns a full profile back into an update touching every field.
func (p Profile) AsUpdate() ProfileUpdate {
	interests := append([]string(nil), p.Interests...)
	if interests == nil {
		interests = []string{}
	}
	return ProfileUpdate{
		FullName:        &p.FullName,
		Email:           &p.Email,
		Phone:           &p.Phone,
		Nationality:     &p.Nationality,
		University:      &p.University,
		Program:         &p.Program,
		YearOfStudy:     &p.YearOfStudy,
		Interests:       &interests,
		ProfileComplete: &p.ProfileComplete,
	}
}

// ProfileUpdate is a partial profile. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName        *string   `json:"fullName,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Nationality     *string   `json:"nationality,omitempty"`
	University      *string   `json:"university,omitempty"`
	Program         *string   `json:"program,omitempty"`
	YearOfStudy     *int      `json:"yearOfStudy,omitempty"`
	Interests       *[]string `json:"interests,omitempty"`
	ProfileComplete *bool     `json:"profileComplete,omitempty"`
}

// Apply writes the non-nil fields of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Nationality != nil {
		p.Nationality = *u.Nationality
	}
	if u.University != nil {
		p.University = *u.University
	}
	if u.Program != nil {
		p.Program = *u.Program
	}
	if u.YearOfStudy != nil {
		p.YearOfStudy = *u.YearOfStudy
	}
	if u.Interests != nil {
		p.Interests = append(make([]string, 0, len(*u.Interests)), (*u.Interests)...)
	}
	if u.ProfileComplete != nil {
		p.ProfileComplete = *u.ProfileComplete
	}
}

// IsMetadataKey reports whether a document key is gateway-internal.
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, common.MetadataKeyPrefix)
}

// DecodeProfile maps a gateway document onto a Profile. Metadata keys are
// consumed for ID/UpdatedAt and otherwise dropped; unknown keys are ignored.
func DecodeProfile(doc []byte) (Profile, error) {
	if !gjson.ValidBytes(doc) {
		return Profile{}, ErrInvalidDocument
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return Profile{}, ErrInvalidDocument
	}

	fields := root.Map()

	var p Profile
	p.UserID = fields["$id"].String()
	if ts, ok := fields["$updatedAt"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, ts.String()); err == nil {
			p.UpdatedAt = t
		}
	}

	u, err := DecodeProfileUpdate(doc)
	if err != nil {
		return Profile{}, err
	}
	u.Apply(&p)
	return p, nil
}

// DecodeProfileUpdate maps an external document onto a ProfileUpdate,
// stripping every metadata key. Callers may hand back a document they got
// from the gateway without scrubbing it first.
func DecodeProfileUpdate(doc []byte) (ProfileUpdate, error) {
	if !gjson.ValidBytes(doc) {
		return ProfileUpdate{}, ErrInvalidDocument
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return ProfileUpdate{}, ErrInvalidDocument
	}

	var (
		u       ProfileUpdate
		failure error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if IsMetadataKey(name) || value.Type == gjson.Null {
			return true
		}
		if err := decodeField(&u, name, value); err != nil {
			failure = err
			return false
		}
		return true
	})
	if failure != nil {
		return ProfileUpdate{}, failure
	}
	return u, nil
}

func decodeField(u *ProfileUpdate, name string, value gjson.Result) error {
	str := func(dst **string) error {
		if value.Type != gjson.String {
			return fmt.Errorf("%w: %s must be a string", ErrInvalidDocument, name)
		}
		s := value.String()
		*dst = &s
		return nil
	}

	switch name {
	case FieldFullName:
		return str(&u.FullName)
	case FieldEmail:
		return str(&u.Email)
	case FieldPhone:
		return str(&u.Phone)
	case FieldNationality:
		return str(&u.Nationality)
	case FieldUniversity:
		return str(&u.University)
	case FieldProgram:
		return str(&u.Program)
	case FieldYearOfStudy:
		f := value.Float()
		if value.Type != gjson.Number || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidDocument, name)
		}
		n := int(f)
		u.YearOfStudy = &n
	case FieldInterests:
		if !value.IsArray() {
			return fmt.Errorf("%w: %s must be an array", ErrInvalidDocument, name)
		}
		interests := make([]string, 0)
		for _, item := range value.Array() {
			if item.Type != gjson.String {
				return fmt.Errorf("%w: %s must hold strings", ErrInvalidDocument, name)
			}
			interests = append(interests, item.String())
		}
		u.Interests = &interests
	case FieldProfileComplete:
		if !value.IsBool() {
			return fmt.Errorf("%w: %s must be a boolean", ErrInvalidDocument, name)
		}
		b := value.Bool()
		u.ProfileComplete = &b
	}
	return nil
}
