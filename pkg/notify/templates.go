package notify

import (
	"bytes"
	_ "embed"
	"html/template"
)

// DecisionMailParams carries the fields rendered into the approval outcome
// mails.
type DecisionMailParams struct {
	Requester string
	Approver  string
	Account   string
	Holder    string
	Reason    string
	Timestamp string
}

var (
	grantedTemplate = template.New("approvalGranted")
	deniedTemplate  = template.New("approvalDenied")

	//go:embed templates/approvalGranted.html
	grantedTemplateRaw string
	//go:embed templates/approvalDenied.html
	deniedTemplateRaw string
)

func init() {
	if _, err := grantedTemplate.Parse(grantedTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := deniedTemplate.Parse(deniedTemplateRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// RenderApprovalGranted renders the mail body for a granted approval.
func RenderApprovalGranted(p DecisionMailParams) (string, error) {
	return render(grantedTemplate, p)
}

// RenderApprovalDenied renders the mail body for a denied approval.
func RenderApprovalDenied(p DecisionMailParams) (string, error) {
	return render(deniedTemplate, p)
}
