package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"OrderDesk/internal/apiclient"
)

var (
	ErrContactRequired     = errors.New("phone number or email required")
	ErrOTPRequired         = errors.New("otp required")
	ErrCredentialsRequired = errors.New("email/password required")
	ErrNoToken             = errors.New("login response carried no token")
)

const (
	requestOTPPath = "/client/customer/request-otp/"
	verifyOTPPath  = "/client/customer/verify-otp/"
	ownerLoginPath = "/client/owner/login/"

	roleCustomer = "customer"
)

type OTPRequest struct {
	Phone        string `json:"phone_number,omitempty"`
	Email        string `json:"email,omitempty"`
	RestaurantID string `json:"restaurant_id,omitempty"`
}

type OTPVerify struct {
	OTPRequest
	OTP string `json:"otp"`
}

type OwnerCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type Login struct {
	Token   string
	Profile Profile
}

type Client struct {
	API *apiclient.Client
}

func (c *Client) RequestOTP(ctx context.Context, req OTPRequest) error {
	req = normalizeContact(req)
	if req.Phone == "" && req.Email == "" {
		return ErrContactRequired
	}
	if req.RestaurantID == "" {
		req.RestaurantID = PreferencesFromContext(ctx).RestaurantID
	}

	err := c.API.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   requestOTPPath,
		Body:   req,
		Scope:  apiclient.ScopeNone,
	}, nil)
	return apiclient.WithFallback(err, "failed to send verification code")
}

func (c *Client) VerifyOTP(ctx context.Context, req OTPVerify) (Login, error) {
	req.OTPRequest = normalizeContact(req.OTPRequest)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Phone == "" && req.Email == "" {
		return Login{}, ErrContactRequired
	}
	if req.OTP == "" {
		return Login{}, ErrOTPRequired
	}
	if req.RestaurantID == "" {
		req.RestaurantID = PreferencesFromContext(ctx).RestaurantID
	}

	var resp loginResp
	err := c.API.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   verifyOTPPath,
		Body:   req,
		Scope:  apiclient.ScopeNone,
	}, &resp)
	if err != nil {
		return Login{}, apiclient.WithFallback(err, "invalid verification code")
	}
	if resp.User.Role == "" {
		resp.User.Role = roleCustomer
	}
	if resp.User.Email == "" {
		resp.User.Email = req.Email
	}
	return toLogin(resp)
}

func (c *Client) OwnerLogin(ctx context.Context, cred OwnerCredentials) (Login, error) {
	// The password goes upstream exactly as typed.
	cred.Email = strings.ToLower(strings.TrimSpace(cred.Email))
	if cred.Email == "" || strings.TrimSpace(cred.Password) == "" {
		return Login{}, ErrCredentialsRequired
	}

	var resp loginResp
	err := c.API.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   ownerLoginPath,
		Body:   cred,
		Scope:  apiclient.ScopeNone,
	}, &resp)
	if err != nil {
		return Login{}, apiclient.WithFallback(err, "invalid credentials")
	}
	if resp.User.Email == "" {
		resp.User.Email = cred.Email
	}
	return toLogin(resp)
}

func toLogin(resp loginResp) (Login, error) {
	if resp.Token == "" {
		return Login{}, ErrNoToken
	}
	return Login{Token: resp.Token, Profile: resp.User}, nil
}

func normalizeContact(r OTPRequest) OTPRequest {
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}
