package models

// ContactRequest is a submission of the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty" validate:"max=200"`
	Message string `json:"message" validate:"notblank,max=5000"`
}
