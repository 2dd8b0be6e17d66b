// Package engine runs the reconciliation batch: for each submission it
// reads the constituent's current CRM state, matches the submitted
// attributes against it, executes the resulting writes, and commits the
// submission to the ledger. Submissions fail independently; one bad
// record never stops the batch.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alum-office/crmsync-cli/internal/config"
	"github.com/alum-office/crmsync-cli/internal/ledger"
	"github.com/alum-office/crmsync-cli/internal/match"
	"github.com/alum-office/crmsync-cli/internal/model"
	"github.com/alum-office/crmsync-cli/internal/notify"
	"github.com/alum-office/crmsync-cli/internal/plan"
	"github.com/alum-office/crmsync-cli/internal/vocab"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

// newRecordWindow is how recently a constituent must have been created
// to be tagged as a new record.
const newRecordWindow = 7 * 24 * time.Hour

// Runner executes a reconciliation batch sequentially.
type Runner struct {
	Client  sky.Client
	Ledger  ledger.Ledger
	Mailer  notify.Mailer
	Degrees *vocab.Degrees

	Match  match.Config
	School config.SchoolConfig

	// RecordCooldown is slept after each processed submission.
	RecordCooldown time.Duration

	Log *zap.Logger

	// Sleep and Now are injectable for tests; nil means the real ones.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Result summarizes one batch.
type Result struct {
	Processed int
	Skipped   int
	Failed    int
	Conflicts int
}

func (r *Runner) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) log() *zap.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zap.L()
}

// Run processes the batch in order. Ledger and context errors abort the
// run; per-submission errors are reported and skipped.
func (r *Runner) Run(ctx context.Context, subs []model.Submission) (Result, error) {
	var res Result
	runID := uuid.New().String()
	runLog := r.log().With(zap.String("run_id", runID))
	runLog.Info("run started", zap.Int("submissions", len(subs)))

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			wrapped := eris.Wrap(err, "engine: run aborted")
			if mailErr := r.Mailer.RunFailed(context.WithoutCancel(ctx), wrapped); mailErr != nil {
				r.log().Error("run failure notification not sent", zap.Error(mailErr))
			}
			return res, wrapped
		}

		log := runLog.With(
			zap.String("submission_id", sub.ID),
			zap.String("constituent_id", sub.ConstituentID),
		)

		if sub.ID != "" {
			processed, err := r.Ledger.Processed(ctx, sub.ID)
			if err != nil {
				return res, eris.Wrap(err, "engine: ledger lookup")
			}
			if processed {
				log.Debug("submission already committed, skipping")
				res.Skipped++
				continue
			}
		}

		outcome, err := r.process(ctx, sub)
		if err != nil {
			res.Failed++
			log.Error("submission failed", zap.Error(err))
			if mailErr := r.Mailer.RecordFailed(ctx, sub.ID, sub.ConstituentID, err); mailErr != nil {
				log.Error("failure notification not sent", zap.Error(mailErr))
			}
			continue
		}
		res.Conflicts += outcome.conflicts

		if sub.ID != "" {
			if err := r.Ledger.Commit(ctx, model.LedgerEntry{
				SubmissionID:  sub.ID,
				ConstituentID: sub.ConstituentID,
				ProcessedAt:   r.now(),
			}); err != nil {
				return res, eris.Wrap(err, "engine: ledger commit")
			}
		}
		res.Processed++
		log.Info("submission reconciled",
			zap.Int("writes", outcome.writes),
			zap.Int("conflicts", outcome.conflicts),
		)
		r.sleep(r.RecordCooldown)
	}
	return res, nil
}

type outcome struct {
	writes    int
	conflicts int
}

// process reconciles one submission end to end. Any returned error
// means the record was not committed and will be retried next run.
func (r *Runner) process(ctx context.Context, sub model.Submission) (outcome, error) {
	var out outcome
	planner := plan.Planner{
		ConstituentID: sub.ConstituentID,
		Source:        sub.Source,
		Verified:      r.verified(sub.Source),
		Now:           r.Now,
	}

	decisions, err := r.decide(ctx, sub)
	if err != nil {
		return out, err
	}

	var ops []plan.Op
	for _, d := range decisions {
		for _, w := range d.Warnings {
			r.log().Warn("submission data issue",
				zap.String("submission_id", sub.ID),
				zap.String("category", string(d.Category)),
				zap.String("warning", w),
			)
		}
		if d.Status == match.StatusEscalate {
			out.conflicts++
			// Advisory only; a lost email never fails the record.
			if err := r.Mailer.EducationConflict(ctx, sub.ID, sub.ConstituentID, *d.Conflict); err != nil {
				r.log().Error("conflict notification not sent",
					zap.String("submission_id", sub.ID),
					zap.Error(err),
				)
			}
			continue
		}
		ops = append(ops, planner.Build(d)...)
	}

	extra, err := r.statusOps(ctx, planner, sub)
	if err != nil {
		return out, err
	}
	ops = append(ops, extra...)

	if err := r.execute(ctx, ops); err != nil {
		return out, err
	}
	out.writes = len(ops)

	for _, d := range decisions {
		if d.NameChange != nil {
			if err := r.Mailer.NameChanged(ctx, sub.ID, sub.ConstituentID, *d.NameChange); err != nil {
				r.log().Error("name change notification not sent",
					zap.String("submission_id", sub.ID),
					zap.Error(err),
				)
			}
		}
	}
	return out, nil
}

// decide reads the constituent's current state and runs every matcher.
// Reads happen per attribute so a submission with no value in a category
// costs no CRM call.
func (r *Runner) decide(ctx context.Context, sub model.Submission) ([]match.Decision, error) {
	var decisions []match.Decision
	id := sub.ConstituentID

	if len(sub.Emails) > 0 {
		remote, err := r.Client.ListEmailAddresses(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list email addresses")
		}
		decisions = append(decisions, match.Emails(sub.Emails, remote, r.Match))
	}
	if len(sub.Phones) > 0 {
		remote, err := r.Client.ListPhones(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list phones")
		}
		decisions = append(decisions, match.Phones(sub.Phones, remote, r.Match))
	}
	if sub.Employment.Organization != "" {
		remote, err := r.Client.ListRelationships(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list relationships")
		}
		decisions = append(decisions, match.Employment(sub.Employment, remote, r.Match))
	}
	if sub.Address != (model.Address{}) {
		remote, err := r.Client.ListAddresses(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list addresses")
		}
		decisions = append(decisions, match.Address(sub.Address, remote, r.Match))
	}
	if sub.Education != (model.Education{}) {
		remote, err := r.Client.ListEducations(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list educations")
		}
		decisions = append(decisions, match.Education(sub.Education, remote, r.Degrees, r.Match))
	}
	if sub.FullName != "" {
		remote, err := r.Client.GetConstituent(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: get constituent")
		}
		decisions = append(decisions, match.Name(sub.FullName, *remote, r.Match))
	}
	if sub.LinkedIn != "" {
		remote, err := r.Client.ListOnlinePresences(ctx, id)
		if err != nil {
			return nil, eris.Wrap(err, "engine: list online presences")
		}
		decisions = append(decisions, match.OnlinePresence(sub.LinkedIn, remote, r.Match))
	}
	return decisions, nil
}

// statusOps adds the writes that depend on record status rather than
// submitted attributes: the new-record tag and the event custom field.
func (r *Runner) statusOps(ctx context.Context, planner plan.Planner, sub model.Submission) ([]plan.Op, error) {
	var ops []plan.Op

	codes, err := r.Client.ListConstituentCodes(ctx, sub.ConstituentID)
	if err != nil {
		return nil, eris.Wrap(err, "engine: list constituent codes")
	}
	if r.isNewRecord(codes) {
		ops = append(ops, planner.TagOp(model.ProvenanceTag{
			Category: plan.TagSyncSource,
			Value:    plan.Provenance(sub.Source, "New Record"),
			Comment:  "constituent created within the last 7 days",
		}))
	}

	if sub.IsEvent {
		ops = append(ops, planner.EventOp(sub.EventDate))
	}
	return ops, nil
}

func (r *Runner) isNewRecord(codes []sky.ConstituentCode) bool {
	cutoff := r.now().Add(-newRecordWindow)
	for _, code := range codes {
		added, ok := parseDateAdded(code.DateAdded)
		if ok && added.After(cutoff) {
			return true
		}
	}
	return false
}

func parseDateAdded(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// execute applies the planned writes in order, stopping at the first
// failure so a tag never lands without its value write.
func (r *Runner) execute(ctx context.Context, ops []plan.Op) error {
	for _, op := range ops {
		var err error
		switch op.Method {
		case "POST":
			err = r.Client.Post(ctx, op.Path, op.Payload)
		case "PATCH":
			err = r.Client.Patch(ctx, op.Path, op.Payload)
		default:
			err = eris.Errorf("engine: unsupported method %q", op.Method)
		}
		if err != nil {
			return eris.Wrapf(err, "engine: %s %s", op.Method, op.Path)
		}
	}
	return nil
}

func (r *Runner) verified(source string) bool {
	for _, s := range r.School.UnverifiedSources {
		if strings.EqualFold(source, s) {
			return false
		}
	}
	return true
}
