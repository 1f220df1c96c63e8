package gateway

import "context"

type validate struct {
	LicenseKey string  `json:"license_key"`
	HWID       string  `json:"hwid"`
	ProductID  *string `json:"product_id"`
}

// ValidationResult is the typed view of a validation response.
type ValidationResult struct {
	Valid   bool         `json:"valid"`
	Error   string       `json:"error,omitempty"`
	License *LicenseInfo `json:"license,omitempty"`
}

// ValidateLicense checks licenseKey against the machine identified by hwid.
// An invalid license is not an error: the API answers with "valid": false
// and a reason in "error", which is returned in the Result.
func (c *Client) ValidateLicense(ctx context.Context, licenseKey string, hwid string, options ...ValidateOption) (Result, error) {
	opts := ValidateOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	params := &validate{
		LicenseKey: licenseKey,
		HWID:       hwid,
		ProductID:  opts.ProductID,
	}

	var result Result
	if _, err := c.Post(ctx, "/license-api/validate", params, &result); err != nil {
		return nil, &OperationError{Op: OperationValidate, Err: err}
	}

	return result, nil
}
