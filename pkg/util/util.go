package util

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

type nopLogger struct{}

func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// NewRestyClient returns an HTTP client with transport-level retries on
// connection failures and retryable statuses. Application-level retry
// policies (like the analytics poll loop) sit on top of this.
func NewRestyClient() *resty.Client {
	c := resty.
		New().
		SetRetryCount(3).
		SetLogger(nopLogger{}).
		SetTimeout(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			retry, _ := retryablehttp.DefaultRetryPolicy(r.Request.Context(), r.RawResponse, err)
			return retry
		})
	c.JSONMarshal = json.Marshal
	c.JSONUnmarshal = json.Unmarshal
	return c
}

// TranscodeJSON re-encodes `in` into `out` through JSON, used to map
// loosely-typed payloads onto concrete structs.
func TranscodeJSON(in, out interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	if err := json.NewDecoder(buf).Decode(out); err != nil {
		return err
	}
	return nil
}
