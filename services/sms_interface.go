package services

// SMSClient is an interface for SMS service providers
type SMSClient interface {
	// SendOTP starts a verification and returns the provider's reference.
	SendOTP(phone string) (string, error)
	ValidateOTP(token string, otpCode string) error
}
