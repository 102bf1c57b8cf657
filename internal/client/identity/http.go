package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/dmitrijs2005/dealership/internal/common"
	"github.com/dmitrijs2005/dealership/internal/logging"
)

const (
	pathLogin              = "/api/auth/login"
	pathRegister           = "/api/auth/register"
	pathGoogle             = "/api/auth/google"
	pathForgotPassword     = "/api/auth/forgot-password"
	pathResetPassword      = "/api/auth/reset-password"
	pathVerifyEmail        = "/api/auth/verify-email"
	pathResendVerification = "/api/auth/resend-verification"

	maxResponseBytes = 1 << 20
)

// HTTPClient implements Provider over the backend's REST/JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
	now     func() time.Time
}

func NewHTTPClient(baseURL string, timeout time.Duration, l logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  l.With("module", "identity_client"),
		now:     time.Now,
	}
}

type deviceBody struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BrowserFamily string `json:"browser"`
	OSFamily      string `json:"os"`
	Fingerprint   string `json:"fingerprint"`
}

func toDeviceBody(d models.DeviceDescriptor) deviceBody {
	return deviceBody{ID: d.DeviceID, Name: d.Name, BrowserFamily: d.BrowserFamily, OSFamily: d.OSFamily, Fingerprint: d.Fingerprint}
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Device   deviceBody `json:"device"`
}

type googleRequest struct {
	Credential string     `json:"credential"`
	Device     deviceBody `json:"device"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Token    string         `json:"token"`
	IssuedAt *time.Time     `json:"issued_at,omitempty"`
	User     models.Account `json:"user"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string, device models.DeviceDescriptor) (*models.SessionRecord, error) {
	var resp sessionResponse
	req := loginRequest{Email: email, Password: password, Device: toDeviceBody(device)}
	if err := c.do(ctx, pathLogin, device.DeviceID, req, &resp); err != nil {
		return nil, err
	}
	return c.toSession(resp)
}

func (c *HTTPClient) Register(ctx context.Context, seed ProfileSeed) (*models.SessionRecord, error) {
	var resp sessionResponse
	if err := c.do(ctx, pathRegister, "", seed, &resp); err != nil {
		return nil, err
	}
	rec, err := c.toSession(resp)
	if err != nil {
		return nil, err
	}
	// a fresh registration is never verified, whatever the payload says
	rec.Account.EmailVerified = false
	return rec, nil
}

func (c *HTTPClient) GoogleLogin(ctx context.Context, assertion string, device models.DeviceDescriptor) (*models.SessionRecord, error) {
	var resp sessionResponse
	req := googleRequest{Credential: assertion, Device: toDeviceBody(device)}
	if err := c.do(ctx, pathGoogle, device.DeviceID, req, &resp); err != nil {
		return nil, err
	}
	return c.toSession(resp)
}

// RequestPasswordReset never tells the caller whether the account exists:
// only transport-level failures are reported.
func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	err := c.do(ctx, pathForgotPassword, "", emailRequest{Email: email}, nil)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNetworkUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	var e *Error
	if errors.As(err, &e) && e.Status >= 500 {
		return err
	}
	c.logger.Debug(ctx, "password reset request rejected, not reported", "error", err)
	return nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (*models.SessionRecord, error) {
	var resp sessionResponse
	if err := c.do(ctx, pathResetPassword, "", resetRequest{Token: token, Password: newPassword}, &resp); err != nil {
		return nil, err
	}
	return c.toSession(resp)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*VerifyResult, error) {
	var resp sessionResponse
	if err := c.do(ctx, pathVerifyEmail, "", tokenRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	if resp.User.ID == "" {
		return nil, &Error{Err: ErrServerError, Message: "verification response without account"}
	}

	result := &VerifyResult{Account: resp.User}
	if resp.Token != "" {
		rec, err := c.toSession(resp)
		if err != nil {
			return nil, err
		}
		result.Session = rec
	}
	return result, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, pathResendVerification, "", emailRequest{Email: email}, nil)
}

func (c *HTTPClient) toSession(resp sessionResponse) (*models.SessionRecord, error) {
	rec := &models.SessionRecord{Token: resp.Token, Account: resp.User}
	if !rec.Valid() {
		return nil, &Error{Err: ErrServerError, Message: "incomplete session in response"}
	}
	if rec.Account.Role == 0 {
		rec.Account.Role = models.RoleCustomer
	}

	switch {
	case resp.IssuedAt != nil:
		rec.IssuedAt = resp.IssuedAt.UTC()
	default:
		if iat, ok := TokenIssuedAt(resp.Token); ok {
			rec.IssuedAt = iat
		} else {
			rec.IssuedAt = c.now().UTC()
		}
	}
	return rec, nil
}

// do posts body as JSON and decodes a 2xx answer into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, path, deviceID string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.ClientFamily)
	if deviceID != "" {
		req.Header.Set(common.DeviceIDHeaderName, deviceID)
	}
	requestID, _ := common.MakeRandHexString(8)
	req.Header.Set(common.RequestIDHeaderName, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn(ctx, "identity backend unreachable", "path", path, "request_id", requestID, "error", err)
		}
		return &Error{Err: ErrNetworkUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Err: ErrNetworkUnavailable, Message: err.Error(), Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(data, &er)
		mapped := mapError(resp.StatusCode, er.Code, er.Message)
		c.logger.Info(ctx, "identity request failed", "path", path, "request_id", requestID, "status", resp.StatusCode, "code", er.Code)
		return mapped
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Err: ErrServerError, Message: "malformed response: " + err.Error(), Status: resp.StatusCode}
	}
	return nil
}
