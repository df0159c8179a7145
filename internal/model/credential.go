package model

import (
	"dana-report-card/pkg/errors"
)

// Credential is the externally supplied portal session.
type Credential struct {
	Cookie   string `json:"-" yaml:"cookie"`
	ClientID string `json:"client_id" yaml:"client_id"`
	Username string `json:"username,omitempty" yaml:"username"`
}

func (c Credential) Validate() error {
	if c.Cookie == "" {
		return errors.NewConfigurationError("cookie", errors.ErrMissingCookie)
	}
	if c.ClientID == "" {
		return errors.NewConfigurationError("client_id", errors.ErrMissingClient)
	}
	return nil
}
