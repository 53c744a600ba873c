package auth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// Ceremony abstracts the WebAuthn ceremony math so the orchestrator can be
// tested without real authenticator hardware. Begin methods return the raw
// challenge payload for the client plus the intermediate state to stash in
// the session.
type Ceremony interface {
	BeginLogin(username string) (challenge json.RawMessage, state *webauthn.SessionData, err error)
	FinishLogin(username string, state *webauthn.SessionData, assertion []byte) error
	BeginRegistration(username string) (challenge json.RawMessage, state *webauthn.SessionData, err error)
	FinishRegistration(username string, state *webauthn.SessionData, credential []byte) error
}

// ceremonyUser adapts a directory entry to the webauthn.User interface.
type ceremonyUser struct {
	name        string
	credentials []webauthn.Credential
}

func (u *ceremonyUser) WebAuthnID() []byte                         { return []byte(u.name) }
func (u *ceremonyUser) WebAuthnName() string                       { return u.name }
func (u *ceremonyUser) WebAuthnDisplayName() string                { return u.name }
func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }
func (u *ceremonyUser) WebAuthnIcon() string                       { return "" }

// WebAuthnCeremony is the production Ceremony backed by go-webauthn and a
// credential registry.
type WebAuthnCeremony struct {
	wa  *webauthn.WebAuthn
	dir Directory
}

// NewWebAuthnCeremony builds a Ceremony for the given relying party.
func NewWebAuthnCeremony(rpID, rpOrigin, displayName string, dir Directory) (*WebAuthnCeremony, error) {
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: displayName,
		RPID:          rpID,
		RPOrigins:     []string{rpOrigin},
	})
	if err != nil {
		return nil, fmt.Errorf("configuring webauthn: %w", err)
	}
	return &WebAuthnCeremony{wa: wa, dir: dir}, nil
}

func (c *WebAuthnCeremony) user(username string) *ceremonyUser {
	return &ceremonyUser{name: username, credentials: c.dir.Passkeys(username)}
}

func (c *WebAuthnCeremony) BeginLogin(username string) (json.RawMessage, *webauthn.SessionData, error) {
	options, state, err := c.wa.BeginLogin(c.user(username))
	if err != nil {
		return nil, nil, fmt.Errorf("beginning login ceremony: %w", err)
	}
	payload, err := json.Marshal(options)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding challenge: %w", err)
	}
	return payload, state, nil
}

func (c *WebAuthnCeremony) FinishLogin(username string, state *webauthn.SessionData, assertion []byte) error {
	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(assertion))
	if err != nil {
		return fmt.Errorf("parsing assertion: %w", err)
	}
	if _, err := c.wa.ValidateLogin(c.user(username), *state, parsed); err != nil {
		return fmt.Errorf("validating assertion: %w", err)
	}
	return nil
}

func (c *WebAuthnCeremony) BeginRegistration(username string) (json.RawMessage, *webauthn.SessionData, error) {
	options, state, err := c.wa.BeginRegistration(c.user(username))
	if err != nil {
		return nil, nil, fmt.Errorf("beginning registration ceremony: %w", err)
	}
	payload, err := json.Marshal(options)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding challenge: %w", err)
	}
	return payload, state, nil
}

func (c *WebAuthnCeremony) FinishRegistration(username string, state *webauthn.SessionData, credential []byte) error {
	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(credential))
	if err != nil {
		return fmt.Errorf("parsing credential: %w", err)
	}
	cred, err := c.wa.CreateCredential(c.user(username), *state, parsed)
	if err != nil {
		return fmt.Errorf("creating credential: %w", err)
	}
	if err := c.dir.AddPasskey(username, *cred); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}
