package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// VolunteerProfile is the role-specific profile of a volunteer identity.
type VolunteerProfile struct {
	IdentityID string    `json:"identity_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone,omitempty"`
	University string    `json:"university,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Interests  []string  `json:"interests"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OrganizationProfile is the role-specific profile of an organizer identity.
type OrganizationProfile struct {
	IdentityID    string    `json:"identity_id"`
	OrgName       string    `json:"org_name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	Website       string    `json:"website,omitempty"`
	LogoRef       string    `json:"logo_ref,omitempty"`
	Description   string    `json:"description,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile holds whichever of the two profiles belongs to an identity.
type Profile struct {
	Role         Role                 `json:"role"`
	Volunteer    *VolunteerProfile    `json:"volunteer,omitempty"`
	Organization *OrganizationProfile `json:"organization,omitempty"`
}

// ValidatePhone accepts 8 to 15 digits with optional spaces, dashes and a
// leading plus sign.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidProfile)
	}
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-':
		case r == '+' && i == 0:
		default:
			return fmt.Errorf("%w: phone contains invalid characters", ErrInvalidProfile)
		}
	}
	if digits < 8 || digits > 15 {
		return fmt.Errorf("%w: phone must have 8 to 15 digits", ErrInvalidProfile)
	}
	return nil
}

// Normalize trims the profile fields and checks the profile-edit rules.
// A volunteer must keep a phone number on file to be able to register.
func (p *VolunteerProfile) Normalize() error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.University = strings.TrimSpace(p.University)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Interests = NormalizeTags(p.Interests)
	if p.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidProfile)
	}
	return ValidatePhone(p.Phone)
}

func (p *OrganizationProfile) Normalize() error {
	p.OrgName = strings.TrimSpace(p.OrgName)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.ContactPhone = strings.TrimSpace(p.ContactPhone)
	p.ContactEmail = strings.TrimSpace(p.ContactEmail)
	p.Website = strings.TrimSpace(p.Website)
	p.Description = strings.TrimSpace(p.Description)
	if p.OrgName == "" {
		return fmt.Errorf("%w: organization name is required", ErrInvalidProfile)
	}
	if p.Website != "" {
		u, err := url.Parse(p.Website)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: website must be an absolute URL", ErrInvalidProfile)
		}
	}
	if p.ContactPhone != "" {
		if err := ValidatePhone(p.ContactPhone); err != nil {
			return err
		}
	}
	return nil
}
