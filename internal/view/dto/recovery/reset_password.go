package recovery

// ResetPasswordData is the view model for the password reset page.
type ResetPasswordData struct {
	// Token is the raw recovery token, empty when none was provided.
	Token string
	// TokenLabel is what the page shows for the token.
	TokenLabel string
	// Error is a user-facing message from the last failed submission.
	Error string
}

// HasToken reports whether a recovery token was provided.
func (d ResetPasswordData) HasToken() bool {
	return d.Token != ""
}
