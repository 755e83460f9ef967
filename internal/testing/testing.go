// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error

	// LastRequest records the most recent request for header assertions.
	LastRequest *http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.LastRequest = req
	return m.response, m.err
}

// NewJSONResponse builds an *http.Response with a JSON body for use with
// [MockRoundTripper].
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

// FakeCredentialStore is an in-memory test double for credentials.Store.
type FakeCredentialStore struct {
	TokenValue string
	GetErr     error
	SetErr     error
	ClearErr   error

	SetCalls   int
	ClearCalls int
}

func (f *FakeCredentialStore) Token(ctx context.Context) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	return f.TokenValue, nil
}

func (f *FakeCredentialStore) SetToken(ctx context.Context, token string) error {
	f.SetCalls++
	if f.SetErr != nil {
		return f.SetErr
	}
	f.TokenValue = token
	return nil
}

func (f *FakeCredentialStore) ClearToken(ctx context.Context) error {
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.TokenValue = ""
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
