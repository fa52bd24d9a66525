package services

import (
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

var ErrInvalidOTP = errors.New("invalid otp code")

// TwilioVerifyClient sends and checks phone codes through Twilio Verify.
type TwilioVerifyClient struct {
	client     *twilio.RestClient
	serviceSID string
}

func NewTwilioVerifyClient(accountSID, authToken, serviceSID string) *TwilioVerifyClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioVerifyClient{client: client, serviceSID: serviceSID}
}

func (t *TwilioVerifyClient) SendOTP(phone string) (string, error) {
	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	resp, err := t.client.VerifyV2.CreateVerification(t.serviceSID, params)
	if err != nil {
		return "", fmt.Errorf("twilio create verification: %w", err)
	}
	if resp.Sid == nil {
		return "", errors.New("twilio returned no verification sid")
	}
	return *resp.Sid, nil
}

func (t *TwilioVerifyClient) ValidateOTP(token string, otpCode string) error {
	params := &verify.CreateVerificationCheckParams{}
	params.SetVerificationSid(token)
	params.SetCode(otpCode)

	resp, err := t.client.VerifyV2.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		return fmt.Errorf("twilio verification check: %w", err)
	}
	if resp.Status == nil || *resp.Status != "approved" {
		return ErrInvalidOTP
	}
	return nil
}
