package notify

import (
	"html/template"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/alum-office/crmsync-cli/internal/config"
	"github.com/alum-office/crmsync-cli/internal/match"
)

const educationConflictTmpl = `<html><body>
<p>The education data submitted for constituent {{.ConstituentID}} disagrees
with the record on file and was not written.</p>
<p><b>Reason:</b> {{.Reason}}</p>
<p><b>Submitted:</b> {{.Submitted}}</p>
<p><b>On file:</b> {{.Remote}}</p>
<p>Submission {{.SubmissionID}}.{{if .RecordLink}} <a href="{{.RecordLink}}">Open in CRM</a>{{end}}</p>
</body></html>`

const nameChangedTmpl = `<html><body>
<p>The name of constituent {{.ConstituentID}} was updated automatically.</p>
<p><b>Previous:</b> {{.Old}}<br><b>Current:</b> {{.New}}</p>
<p>The previous name was kept as the former name. Review if this change
looks wrong. Submission {{.SubmissionID}}.{{if .RecordLink}} <a href="{{.RecordLink}}">Open in CRM</a>{{end}}</p>
</body></html>`

const recordFailedTmpl = `<html><body>
<p>Submission {{.SubmissionID}} for constituent {{.ConstituentID}} failed
and was skipped. It will be retried on the next run.</p>
<p><b>Error:</b> {{.Error}}</p>
<p>{{if .RecordLink}}<a href="{{.RecordLink}}">Open in CRM</a>{{end}}</p>
</body></html>`

const runFailedTmpl = `<html><body>
<p>The reconciliation run aborted before completing.</p>
<p><b>Error:</b> {{.Error}}</p>
</body></html>`

var (
	educationConflictTemplate = template.Must(template.New("education_conflict").Parse(educationConflictTmpl))
	nameChangedTemplate       = template.Must(template.New("name_changed").Parse(nameChangedTmpl))
	recordFailedTemplate      = template.Must(template.New("record_failed").Parse(recordFailedTmpl))
	runFailedTemplate         = template.Must(template.New("run_failed").Parse(runFailedTmpl))
)

func recordLink(cfg config.MailConfig, constituentID string) string {
	if cfg.RecordURL == "" {
		return ""
	}
	return strings.TrimSuffix(cfg.RecordURL, "/") + "/" + constituentID
}

func renderEducationConflict(cfg config.MailConfig, submissionID, constituentID string, c match.Conflict) (string, error) {
	var b strings.Builder
	err := educationConflictTemplate.Execute(&b, map[string]any{
		"ConstituentID": constituentID,
		"SubmissionID":  submissionID,
		"Reason":        c.Reason,
		"Submitted":     c.Submitted,
		"Remote":        c.Remote,
		"RecordLink":    recordLink(cfg, constituentID),
	})
	return b.String(), eris.Wrap(err, "notify: render education conflict")
}

func renderNameChanged(cfg config.MailConfig, submissionID, constituentID string, change match.NameChange) (string, error) {
	var b strings.Builder
	err := nameChangedTemplate.Execute(&b, map[string]any{
		"ConstituentID": constituentID,
		"SubmissionID":  submissionID,
		"Old":           change.Old,
		"New":           change.New,
		"RecordLink":    recordLink(cfg, constituentID),
	})
	return b.String(), eris.Wrap(err, "notify: render name change")
}

func renderRecordFailed(cfg config.MailConfig, submissionID, constituentID string, cause error) (string, error) {
	var b strings.Builder
	err := recordFailedTemplate.Execute(&b, map[string]any{
		"ConstituentID": constituentID,
		"SubmissionID":  submissionID,
		"Error":         cause.Error(),
		"RecordLink":    recordLink(cfg, constituentID),
	})
	return b.String(), eris.Wrap(err, "notify: render record failure")
}

func renderRunFailed(cause error) (string, error) {
	var b strings.Builder
	err := runFailedTemplate.Execute(&b, map[string]any{"Error": cause.Error()})
	return b.String(), eris.Wrap(err, "notify: render run failure")
}
