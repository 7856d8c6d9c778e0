package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/dustin/go-humanize"
)

type LayoutConfig struct {
	RuleWidth  int
	LabelWidth int
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		RuleWidth:  64,
		LabelWidth: 28,
	}
}

// Reporter renders a region report as a human readable text block.
type Reporter struct {
	writer io.Writer
	config LayoutConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultLayoutConfig(),
	}
}

// Publish lets the reporter act as a report sink printing to its writer.
func (c *Reporter) Publish(_ context.Context, report domain.RegionReport) error {
	return c.Handle(report)
}

type labeledAccount struct {
	Type string
	domain.ProviderAccount
}

func (c *Reporter) Handle(report domain.RegionReport) error {
	funcMap := template.FuncMap{
		"rule": func() string {
			return strings.Repeat("═", c.config.RuleWidth)
		},
		"thin": func() string {
			return strings.Repeat("─", c.config.RuleWidth)
		},
		"pad": func(label string) string {
			return fmt.Sprintf("%-*s", c.config.LabelWidth, label)
		},
		"padN": func(label string, width int) string {
			return fmt.Sprintf("%-*s", width, label)
		},
		"upper":    strings.ToUpper,
		"icon":     statusIcon,
		"money":    money,
		"deref":    deref,
		"name":     tenantName,
		"accounts": accounts,
		"stalenessIcon": func(s domain.Status) string {
			if s == domain.StatusOK {
				return "✅"
			}
			return "❌"
		},
	}

	tmpl := `{{rule}}
  TENANT HEALTH REPORT
  Region  : {{upper .Region.String}}
  Date    : {{.GeneratedAt.UTC.Format "2006-01-02"}}  |  Run at: {{.GeneratedAt.UTC.Format "2006-01-02 15:04:05"}}
  Tenants : {{len .Tenants}}
{{- if .AuthError}}
  Login   : ⚠️  {{deref .AuthError}}
{{- end}}
{{rule}}
{{range .Tenants}}
╔{{rule}}
║  {{name .}}
║  Tenant ID : {{.TenantID}}
╠{{rule}}
║  SHEET VALUES
║  {{thin}}
║  {{icon .AWSCUR}}  {{pad "AWS CUR Ingest"}} │  {{.AWSCUR}}
║  {{icon .AzureCUR}}  {{pad "Azure CUR Ingest"}} │  {{.AzureCUR}}
║  {{icon .GCPCUR}}  {{pad "GCP CUR Ingest"}} │  {{.GCPCUR}}
║  {{icon .AnomalyRun}}  {{pad "Anomaly Run"}} │  {{.AnomalyRun}}
║  {{icon .Insights}}  {{pad "Insights"}} │  {{.Insights}}
║  {{icon .AccountRefresh}}  {{pad "Account Refresh"}} │  {{.AccountRefresh}}
║  💰  {{pad "Current YTD"}} │  {{money .YTDCost}}
║  💡  {{pad "Annualised Insight Found"}} │  {{money .AnnualisedInsightSavings}}
║  ⚡  {{pad "Elasticity Agent Savings"}} │  {{money .ElasticityAnnualisedSavings}}
║  👥  {{pad "Number of Users Logged In"}} │  {{.UniqueSignInUsers}}
║  📊  {{pad "Number of Activities"}} │  {{.TotalActivity}}
║
╠{{rule}}
║  DETAIL
║  {{thin}}
║  [CUR / Account Refresh]{{if .CloudAccountsError}}  ⚠️  Fetch failed: {{deref .CloudAccountsError}}{{else}}
{{- range accounts .ProviderDetail}}
║    {{stalenessIcon .Staleness.Status}} [{{.Type}}] {{.AccountName}} - {{.Staleness.Label}}
{{- else}}
║    No provider accounts found
{{- end}}{{end}}
║
{{- if .AnalyticsError}}
║  [Anomaly / Insights]  ⚠️  Fetch failed: {{deref .AnalyticsError}}
{{- end}}
║  [Anomaly Job]
║    {{or .AnomalyDetail "N/A"}}
║  [Insights]
║    {{or .InsightsDetail "N/A"}}
║
║  [Financials]{{if .FinancialsError}}  ⚠️  Fetch failed: {{deref .FinancialsError}}{{else}}
║    YTD period : {{deref .YTDStartDate}} → {{deref .YTDEndDate}}
║    YTD as of  : {{deref .YTDAsOf}}
{{- range .InsightsBreakdown}}
║    Insights {{padN .Priority 8}}: {{.Count}} item(s), {{money .Savings}}
{{- end}}
║    Elasticity monthly savings    : {{money .ElasticityMonthlySavings}}
║    Elasticity scheduled instances: {{.ElasticityInstanceCount}}{{end}}
║
║  [User Activity, Today]{{if .ActivityError}}  ⚠️  Fetch failed: {{deref .ActivityError}}{{else}}
║    Unique users signed in : {{.UniqueSignInUsers}}
║    Total sign-in events   : {{.SignInCount}}
║    Total activities       : {{.TotalActivity}}{{end}}
╚{{rule}}
{{end}}`

	t, err := template.New("region").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func statusIcon(s domain.Status) string {
	switch s {
	case domain.StatusOK, domain.StatusPass:
		return "✅"
	case domain.StatusFail, domain.StatusCritical, domain.StatusWarning, domain.StatusFlagged:
		return "❌"
	case domain.StatusError:
		return "⚠️ "
	default:
		return "➖ "
	}
}

// money formats an amount as dollars with thousands separators. A nil
// amount is rendered as N/A.
func money(v any) string {
	switch amount := v.(type) {
	case float64:
		return "$" + humanize.FormatFloat("#,###.##", amount)
	case *float64:
		if amount == nil {
			return "N/A"
		}
		return "$" + humanize.FormatFloat("#,###.##", *amount)
	default:
		return "N/A"
	}
}

func deref(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func tenantName(r domain.TenantHealthReport) string {
	if r.TenantName != nil && *r.TenantName != "" {
		return *r.TenantName
	}
	return r.TenantID
}

func accounts(groups *domain.ProviderGroups) []labeledAccount {
	if groups == nil {
		return nil
	}

	var out []labeledAccount
	for _, g := range []struct {
		label    string
		accounts []domain.ProviderAccount
	}{
		{"AWS", groups.AWS},
		{"AZURE", groups.Azure},
		{"GCP", groups.GCP},
	} {
		for _, a := range g.accounts {
			out = append(out, labeledAccount{Type: g.label, ProviderAccount: a})
		}
	}
	return out
}
