package flow

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/marmos91/authbridge/pkg/auth"
)

// Component discriminators returned by the flow executor.
const (
	ComponentIdentification = "ak-stage-identification"
	ComponentAccessDenied   = "ak-stage-access-denied"
	ComponentRedirect       = "xak-flow-redirect"
)

// Stage is a challenge returned by the flow executor. The set of
// implementations is closed: IdentificationStage, AccessDeniedStage,
// RedirectStage and UnknownStage.
type Stage interface {
	component() string
}

// IdentificationStage asks for a user identifier and, when PasswordFields is
// set, a password in the same submission.
type IdentificationStage struct {
	Component      string   `json:"component"`
	UserFields     []string `json:"user_fields"`
	PasswordFields bool     `json:"password_fields"`
}

// AccessDeniedStage ends the flow without authenticating.
type AccessDeniedStage struct {
	Component string `json:"component"`
	Message   string `json:"error_message"`
}

// RedirectStage ends the flow successfully.
type RedirectStage struct {
	Component string `json:"component"`
	To        string `json:"to"`
}

// UnknownStage is any component the bridge does not handle.
type UnknownStage struct {
	Component string
	Raw       json.RawMessage
}

func (s *IdentificationStage) component() string { return s.Component }
func (s *AccessDeniedStage) component() string   { return s.Component }
func (s *RedirectStage) component() string       { return s.Component }
func (s *UnknownStage) component() string        { return s.Component }

// ComponentOf returns the discriminator of s.
func ComponentOf(s Stage) string {
	return s.component()
}

// Accepts reports whether the stage can take a username submitted as
// uidField together with a password.
func (s *IdentificationStage) Accepts(uidField string) error {
	if !slices.Contains(s.UserFields, uidField) {
		return fmt.Errorf("%w: user_fields %v do not include %q", auth.ErrProtocolShape, s.UserFields, uidField)
	}
	if !s.PasswordFields {
		return fmt.Errorf("%w: password field not offered", auth.ErrProtocolShape)
	}
	return nil
}

// DecodeStage decodes an executor response on its component field.
func DecodeStage(data []byte) (Stage, error) {
	var head struct {
		Component string `json:"component"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: undecodable challenge: %v", auth.ErrUpstreamTransport, err)
	}

	var stage Stage
	switch head.Component {
	case ComponentIdentification:
		stage = &IdentificationStage{}
	case ComponentAccessDenied:
		stage = &AccessDeniedStage{}
	case ComponentRedirect:
		stage = &RedirectStage{}
	default:
		return &UnknownStage{Component: head.Component, Raw: json.RawMessage(data)}, nil
	}

	if err := json.Unmarshal(data, stage); err != nil {
		return nil, fmt.Errorf("%w: %s challenge: %v", auth.ErrProtocolShape, head.Component, err)
	}
	return stage, nil
}
