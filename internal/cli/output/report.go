package output

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marmos91/authbridge/pkg/auth"
	"github.com/marmos91/authbridge/pkg/auth/directory"
)

// PrintReport writes the success report consumed by the host:
//
//	username = <display name>
//	group = <marker>
//
// The group line is written only when the decision carries a marker.
func PrintReport(w io.Writer, d *auth.Decision) error {
	if d == nil || d.User == nil {
		return fmt.Errorf("no decision to report")
	}
	if _, err := fmt.Fprintf(w, "username = %s\n", d.User.DisplayName); err != nil {
		return err
	}
	if d.Marker != "" {
		if _, err := fmt.Fprintf(w, "group = %s\n", d.Marker); err != nil {
			return err
		}
	}
	return nil
}

// CheckReport summarizes one interactive authentication check.
type CheckReport struct {
	Username    string   `json:"username" yaml:"username"`
	Backend     string   `json:"backend" yaml:"backend"`
	Outcome     string   `json:"outcome" yaml:"outcome"`
	DisplayName string   `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Role        string   `json:"role,omitempty" yaml:"role,omitempty"`
	Marker      string   `json:"marker,omitempty" yaml:"marker,omitempty"`
	Groups      []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	DurationMs  int64    `json:"duration_ms" yaml:"duration_ms"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCheckReport builds a report from the result of Bridge.Authenticate.
func NewCheckReport(username, backend string, d *auth.Decision, err error, durationMs int64) *CheckReport {
	r := &CheckReport{
		Username:   username,
		Backend:    backend,
		DurationMs: durationMs,
	}

	switch {
	case err == nil && d != nil:
		r.Outcome = string(auth.OutcomeAccepted)
		r.DisplayName = d.User.DisplayName
		r.Role = d.Role.String()
		r.Marker = d.Marker
		r.Groups = d.User.Groups
	case errors.Is(err, auth.ErrRoleRejected):
		r.Outcome = string(auth.OutcomeRoleRejected)
		r.Error = err.Error()
	case auth.IsRejection(err):
		r.Outcome = string(auth.OutcomeRejected)
		r.Error = err.Error()
	default:
		r.Outcome = string(auth.OutcomeError)
		if err != nil {
			r.Error = err.Error()
		}
	}
	return r
}

// Accepted reports whether the check succeeded.
func (r *CheckReport) Accepted() bool {
	return r.Outcome == string(auth.OutcomeAccepted)
}

// Headers implements TableRenderer.
func (r *CheckReport) Headers() []string {
	return []string{"Field", "Value"}
}

// Rows implements TableRenderer.
func (r *CheckReport) Rows() [][]string {
	rows := [][]string{
		{"Username", r.Username},
		{"Backend", r.Backend},
		{"Outcome", r.Outcome},
	}
	if r.Accepted() {
		rows = append(rows,
			[]string{"Display name", r.DisplayName},
			[]string{"Role", r.Role},
			[]string{"Marker", emptyOr(r.Marker, "-")},
			[]string{"Groups", emptyOr(strings.Join(r.Groups, ", "), "-")},
		)
	}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	}
	rows = append(rows, []string{"Duration", strconv.FormatInt(r.DurationMs, 10) + "ms"})
	return rows
}

// CodeEntry is one row of the result code registry.
type CodeEntry struct {
	Code        int    `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	Accepts     bool   `json:"accepts" yaml:"accepts"`
}

// CodeList renders the directory result code registry.
type CodeList []CodeEntry

// NewCodeList builds the list from the registry in ascending order.
func NewCodeList() CodeList {
	codes := directory.ResultCodes()
	list := make(CodeList, 0, len(codes))
	for _, c := range codes {
		list = append(list, CodeEntry{
			Code:        int(c),
			Description: c.Description(),
			Accepts:     c.IsSuccess(),
		})
	}
	return list
}

// Headers implements TableRenderer.
func (l CodeList) Headers() []string {
	return []string{"Code", "Description", "Verdict"}
}

// Rows implements TableRenderer.
func (l CodeList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		verdict := "reject"
		if e.Accepts {
			verdict = "accept"
		}
		rows = append(rows, []string{strconv.Itoa(e.Code), e.Description, verdict})
	}
	return rows
}

func emptyOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
