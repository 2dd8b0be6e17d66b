package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alum-office/crmsync-cli/internal/engine"
	"github.com/alum-office/crmsync-cli/internal/ingest"
	"github.com/alum-office/crmsync-cli/internal/ledger"
	"github.com/alum-office/crmsync-cli/internal/match"
	"github.com/alum-office/crmsync-cli/internal/notify"
	"github.com/alum-office/crmsync-cli/internal/resilience"
	"github.com/alum-office/crmsync-cli/internal/vocab"
	"github.com/alum-office/crmsync-cli/pkg/sky"
)

var (
	syncResponsesPath string
	syncDryRun        bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile form submissions into the CRM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ingestCfg := cfg.Ingest
		if syncResponsesPath != "" {
			ingestCfg.ResponsesPath = syncResponsesPath
		}
		subs, err := ingest.Read(ingestCfg)
		if err != nil {
			return err
		}
		zap.L().Info("responses loaded",
			zap.String("path", ingestCfg.ResponsesPath),
			zap.Int("submissions", len(subs)),
		)
		if syncDryRun {
			zap.L().Info("dry run, no writes will be made")
			return nil
		}

		degrees, err := vocab.LoadDegrees(cfg.Vocab.DegreesPath)
		if err != nil {
			return err
		}

		led, err := ledger.Open(ctx, cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		mailer, err := notify.New(cfg.Mail)
		if err != nil {
			return err
		}

		client := sky.NewClient(
			cfg.Sky.SubscriptionKey,
			sky.FileTokenSource{Path: cfg.Sky.TokenPath},
			sky.WithBaseURL(cfg.Sky.BaseURL),
			sky.WithRateLimit(cfg.Sky.RequestsPerSec),
			sky.WithRetry(resilience.DefaultRetryConfig().WithMaxAttempts(cfg.Sky.MaxRetries)),
			sky.WithCooldown(cfg.Sky.CallCooldown()),
		)

		runner := &engine.Runner{
			Client:  client,
			Ledger:  led,
			Mailer:  mailer,
			Degrees: degrees,
			Match: match.Config{
				PhoneThreshold:        cfg.Match.PhoneThreshold,
				RelationshipThreshold: cfg.Match.RelationshipThreshold,
				AddressThreshold:      cfg.Match.AddressThreshold,
				EducationMinYear:      cfg.Match.EducationMinYear,
				SchoolName:            cfg.School.Name,
				SchoolEmailDomains:    cfg.School.EmailDomains,
				StatelessCountries:    cfg.School.StatelessCountries,
			},
			School:         cfg.School,
			RecordCooldown: cfg.Sky.RecordCooldown(),
			Log:            zap.L(),
		}

		res, err := runner.Run(ctx, subs)
		zap.L().Info("run finished",
			zap.Int("processed", res.Processed),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", res.Failed),
			zap.Int("conflicts", res.Conflicts),
		)
		if err != nil {
			return eris.Wrap(err, "sync: run")
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncResponsesPath, "responses", "", "responses file to reconcile (overrides config)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "parse and report the input without writing to the CRM")
	rootCmd.AddCommand(syncCmd)
}
