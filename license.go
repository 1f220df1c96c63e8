package gateway

import (
	"context"
	"os"
	"time"
)

// LicenseInfo describes a license as reported by validate and info responses.
type LicenseInfo struct {
	ID                 string       `json:"id"`
	LicenseKey         string       `json:"license_key"`
	Status             string       `json:"status"`
	ExpiresAt          *time.Time   `json:"expires_at"`
	MaxActivations     int          `json:"max_activations"`
	CurrentActivations int          `json:"current_activations"`
	Product            *ProductInfo `json:"product,omitempty"`
	User               *UserInfo    `json:"user,omitempty"`
	Activations        []Activation `json:"activations,omitempty"`
}

// Expired reports whether the license has an expiry in the past.
func (l *LicenseInfo) Expired() bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(time.Now())
}

type ProductInfo struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// UserInfo is the license holder. Validate responses use "name", info
// responses the profile's "full_name".
type UserInfo struct {
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Company  string `json:"company,omitempty"`
}

func (u *UserInfo) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}

	return u.FullName
}

// Activation is a machine a license has been activated on.
type Activation struct {
	HWID        string     `json:"hwid"`
	ActivatedAt *time.Time `json:"activated_at"`
	IsActive    bool       `json:"is_active"`
}

type activate struct {
	LicenseKey  string `json:"license_key"`
	HWID        string `json:"hwid"`
	MachineName string `json:"machine_name"`
}

type deactivate struct {
	LicenseKey string `json:"license_key"`
	HWID       string `json:"hwid"`
}

// ActivationResult is the typed view of an activation response.
type ActivationResult struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message,omitempty"`
	Error        string     `json:"error,omitempty"`
	ActivationID string     `json:"activation_id,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
}

// DeactivationResult is the typed view of a deactivation response.
type DeactivationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InfoResult is the typed view of a license info response.
type InfoResult struct {
	License *LicenseInfo `json:"license,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ActivateLicense binds licenseKey to the machine identified by hwid. The
// machine name defaults to the local host name.
func (c *Client) ActivateLicense(ctx context.Context, licenseKey string, hwid string, options ...ActivateOption) (Result, error) {
	opts := ActivateOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	if opts.MachineName == "" {
		opts.MachineName, _ = os.Hostname()
	}

	params := &activate{
		LicenseKey:  licenseKey,
		HWID:        hwid,
		MachineName: opts.MachineName,
	}

	var result Result
	if _, err := c.Post(ctx, "/license-api/activate", params, &result); err != nil {
		return nil, &OperationError{Op: OperationActivate, Err: err}
	}

	return result, nil
}

// DeactivateLicense releases the activation of licenseKey on hwid.
func (c *Client) DeactivateLicense(ctx context.Context, licenseKey string, hwid string) (Result, error) {
	params := &deactivate{
		LicenseKey: licenseKey,
		HWID:       hwid,
	}

	var result Result
	if _, err := c.Post(ctx, "/license-api/deactivate", params, &result); err != nil {
		return nil, &OperationError{Op: OperationDeactivate, Err: err}
	}

	return result, nil
}

// GetLicenseInfo fetches the license, its product, holder and activations.
func (c *Client) GetLicenseInfo(ctx context.Context, licenseKey string) (Result, error) {
	var result Result
	if _, err := c.Get(ctx, "/license-api/info", querystring{LicenseKey: licenseKey}, &result); err != nil {
		return nil, &OperationError{Op: OperationInfo, Err: err}
	}

	return result, nil
}
