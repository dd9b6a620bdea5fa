// Package pages contains page objects for the sample application. Each page
// wraps the shared API client with typed operations and status checks, so
// test code never builds requests or parses responses itself.
package pages

import (
	"fmt"

	"github.com/qaengine/webtest-harness/apiclient"
	"github.com/qaengine/webtest-harness/framework"
)

const loginAttempts = 3

// LoginPage drives the application's login and logout endpoints. A
// successful login stores the session token on the shared client, so every
// page using the same client is authenticated afterwards.
type LoginPage struct {
	client *apiclient.Client
	logger framework.Logger

	lastStatus int
	lastError  string
	token      string
}

func NewLoginPage(client *apiclient.Client, logger framework.Logger) *LoginPage {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &LoginPage{client: client, logger: logger}
}

// Login submits the credentials. Transient transport errors are retried a
// few times before giving up; an HTTP-level rejection is not an error here,
// it is reported through LoginSuccessful and ErrorMessage.
func (p *LoginPage) Login(username, password string) error {
	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		resp, err := p.client.Post("/login", &apiclient.RequestOpts{
			JSON: map[string]string{"username": username, "password": password},
		})
		if err != nil {
			lastErr = err
			p.logger.Printf("login attempt %d failed: %s", attempt, err)
			continue
		}

		p.lastStatus = resp.StatusCode
		p.lastError = resp.JSONValue("error").StringValue()
		p.token = resp.JSONValue("token").StringValue()
		if p.token != "" {
			p.client.SetAuthToken(p.token, "")
		}
		return nil
	}
	return fmt.Errorf("login did not complete after %d attempts: %w", loginAttempts, lastErr)
}

// LoginSuccessful reports whether the last Login call was accepted.
func (p *LoginPage) LoginSuccessful() bool {
	return p.lastStatus == 200 && p.token != ""
}

// ErrorMessage returns the error the application reported for the last
// login, or an empty string.
func (p *LoginPage) ErrorMessage() string {
	return p.lastError
}

// Token returns the current session token, or an empty string.
func (p *LoginPage) Token() string {
	return p.token
}

// Logout ends the current session and clears the client's authentication.
func (p *LoginPage) Logout() error {
	resp, err := p.client.Post("/logout", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != 204 {
		return fmt.Errorf("logout returned status %d", resp.StatusCode)
	}
	p.token = ""
	p.lastStatus = 0
	p.client.ClearAuth()
	return nil
}
