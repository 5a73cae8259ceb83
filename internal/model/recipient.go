// internal/model/recipient.go
package model

// Recipient is a contact record from the recipient directory. Email and
// phone are optional; which one matters depends on the campaign channel.
type Recipient struct {
	ID       int    `db:"id" json:"id"`
	Email    string `db:"email" json:"email,omitempty"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// HasEmail reports whether the recipient can receive email.
func (r *Recipient) HasEmail() bool {
	return r.Email != ""
}

// HasPhone reports whether the recipient can receive sms or push.
func (r *Recipient) HasPhone() bool {
	return r.Phone != ""
}
