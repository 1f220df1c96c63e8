package gateway

import "encoding/json"

// Result is a decoded API response. The client passes it through verbatim;
// the helpers below only read well-known fields and never fail on missing or
// mistyped ones.
type Result map[string]interface{}

// Valid reports the "valid" flag of a validation response.
func (r Result) Valid() bool {
	return r.boolField("valid")
}

// Success reports the "success" flag of activation, deactivation and
// heartbeat responses.
func (r Result) Success() bool {
	return r.boolField("success")
}

func (r Result) Message() string {
	return r.stringField("message")
}

// ErrorMessage returns the "error" field the API uses to explain a negative
// result, e.g. "License has expired".
func (r Result) ErrorMessage() string {
	return r.stringField("error")
}

// Decode converts the result into one of the typed views, e.g.
// *ValidationResult.
func (r Result) Decode(v interface{}) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

func (r Result) boolField(key string) bool {
	v, _ := r[key].(bool)

	return v
}

func (r Result) stringField(key string) string {
	v, _ := r[key].(string)

	return v
}
