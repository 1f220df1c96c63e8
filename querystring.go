package gateway

type querystring struct {
	LicenseKey string `url:"license_key"`
}
