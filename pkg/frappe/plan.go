// pkg/frappe/plan.go

package frappe

import (
	"fmt"
	"io"

	"github.com/CodeMonkeyCybersecurity/hestia/pkg/interaction"
)

// Plan is what the operator chose for this run.
type Plan struct {
	Branch         string
	Site           string
	DBRootPassword *interaction.Secret
	AdminPassword  *interaction.Secret
	InstallERPNext bool
	InstallHRMS    bool
	Production     bool
	TLS            bool
	Email          string
}

// Clear zeroes both secrets.
func (p *Plan) Clear() {
	if p == nil {
		return
	}
	p.DBRootPassword.Clear()
	p.AdminPassword.Clear()
}

// PrintSummary shows the choices before the operator confirms.
func (p *Plan) PrintSummary(w io.Writer) {
	yn := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	_, _ = fmt.Fprintf(w, "\n  Branch:            %s\n", p.Branch)
	_, _ = fmt.Fprintf(w, "  Site:              %s\n", p.Site)
	_, _ = fmt.Fprintf(w, "  Install ERPNext:   %s\n", yn(p.InstallERPNext))
	_, _ = fmt.Fprintf(w, "  Install HRMS:      %s\n", yn(p.InstallHRMS))
	_, _ = fmt.Fprintf(w, "  Production setup:  %s\n", yn(p.Production))
	_, _ = fmt.Fprintf(w, "  TLS certificate:   %s\n", yn(p.TLS))
	if p.TLS {
		_, _ = fmt.Fprintf(w, "  Certificate email: %s\n", p.Email)
	}
	_, _ = fmt.Fprintln(w)
}
