package printing

import (
	"context"
	"html/template"
	"time"

	"github.com/verone/backoffice/internal/domain/rental"
)

// ContractView is the data a contract document is rendered from
type ContractView struct {
	Contract         *rental.Contract
	OrganisationName string
	TargetLabel      string
	GeneratedAt      time.Time
}

// ContractDocument is a rendered contract
type ContractDocument struct {
	HTML      string
	PDF       []byte
	PageCount int
}

// ContractDocumentRenderer renders management contracts to HTML and PDF
type ContractDocumentRenderer struct {
	engine *TemplateEngine
	tmpl   *template.Template
	pdf    PDFRenderer
}

// NewContractDocumentRenderer compiles the contract template
func NewContractDocumentRenderer(engine *TemplateEngine, pdf PDFRenderer) (*ContractDocumentRenderer, error) {
	tmpl, err := engine.Parse("contract", contractTemplate)
	if err != nil {
		return nil, err
	}
	return &ContractDocumentRenderer{engine: engine, tmpl: tmpl, pdf: pdf}, nil
}

// RenderHTML renders the contract to HTML only
func (r *ContractDocumentRenderer) RenderHTML(view ContractView) (string, error) {
	if view.Contract == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "contract is required", nil)
	}
	if view.GeneratedAt.IsZero() {
		view.GeneratedAt = time.Now()
	}
	return r.engine.Execute(r.tmpl, view)
}

// Render renders the contract to HTML and converts it to PDF
func (r *ContractDocumentRenderer) Render(ctx context.Context, view ContractView) (*ContractDocument, error) {
	html, err := r.RenderHTML(view)
	if err != nil {
		return nil, err
	}
	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       html,
		Margins:    DefaultMargins(),
		Title:      "Contrat de gestion",
		FooterHTML: contractFooter,
	})
	if err != nil {
		return nil, err
	}
	return &ContractDocument{HTML: html, PDF: result.PDFData, PageCount: result.PageCount}, nil
}

const contractFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#666;">` +
	`Page <span class="pageNumber"></span> / <span class="totalPages"></span></div>`

const contractTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>Contrat de gestion</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #222; }
h1 { font-size: 18px; text-align: center; margin-bottom: 4px; }
h2 { font-size: 13px; border-bottom: 1px solid #999; margin-top: 18px; }
table { width: 100%; border-collapse: collapse; }
td { padding: 3px 6px; vertical-align: top; }
td.label { width: 40%; color: #555; }
.muted { color: #777; text-align: center; }
</style>
</head>
<body>
{{- $c := .Contract }}
<h1>Contrat de gestion locative courte durée</h1>
<p class="muted">Émis le {{ formatDate $c.EmissionDate }}</p>

<h2>Parties</h2>
<table>
<tr><td class="label">Gestionnaire</td><td>{{ default "-" .OrganisationName }}</td></tr>
{{- with $c.Landlord }}
<tr><td class="label">Propriétaire</td><td>{{ .Name }}</td></tr>
{{- if .Email }}<tr><td class="label">Email</td><td>{{ .Email }}</td></tr>{{ end }}
{{- if .Phone }}<tr><td class="label">Téléphone</td><td>{{ .Phone }}</td></tr>{{ end }}
{{- if not .Address.IsEmpty }}<tr><td class="label">Adresse</td><td>{{ .Address.String }}</td></tr>{{ end }}
{{- end }}
</table>

<h2>Bien</h2>
<table>
<tr><td class="label">Désignation</td><td>{{ default "-" .TargetLabel }}</td></tr>
<tr><td class="label">Meublé</td><td>{{ yesNo $c.Furnished }}</td></tr>
<tr><td class="label">Sous-location autorisée</td><td>{{ yesNo $c.SubletAuthorized }}</td></tr>
<tr><td class="label">Travaux nécessaires</td><td>{{ yesNo $c.RenovationNeeded }}</td></tr>
{{- if $c.ImposedDurationMonths }}
<tr><td class="label">Durée imposée</td><td>{{ $c.ImposedDurationMonths }} mois</td></tr>
{{- end }}
</table>

<h2>Conditions</h2>
<table>
<tr><td class="label">Type de contrat</td><td>{{ title (printf "%s" $c.Type) }}</td></tr>
<tr><td class="label">Période</td><td>du {{ formatDate $c.StartDate }} au {{ formatDate $c.EndDate }} ({{ $c.DurationMonths }} mois)</td></tr>
<tr><td class="label">Commission</td><td>{{ formatPercent $c.CommissionPercent }}</td></tr>
<tr><td class="label">Usage propriétaire maximum</td><td>{{ $c.OwnerUsageDaysMax }} jours par an</td></tr>
{{- if $c.MonthlyRent }}<tr><td class="label">Loyer mensuel</td><td>{{ formatMoney $c.MonthlyRent }}</td></tr>{{ end }}
{{- if $c.Charges }}<tr><td class="label">Charges</td><td>{{ formatMoney $c.Charges }}</td></tr>{{ end }}
{{- if $c.Deposit }}<tr><td class="label">Dépôt de garantie</td><td>{{ formatMoney $c.Deposit }}</td></tr>{{ end }}
</table>

{{- if $c.Notes }}
<h2>Notes</h2>
<p>{{ $c.Notes }}</p>
{{- end }}

<p class="muted">Document généré le {{ formatDate .GeneratedAt }}</p>
</body>
</html>
`
