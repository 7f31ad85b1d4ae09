package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/agent"
	"github.com/fmuoria/ai-recruiter/internal/config"
	"github.com/fmuoria/ai-recruiter/internal/export"
	"github.com/fmuoria/ai-recruiter/internal/google"
	"github.com/fmuoria/ai-recruiter/internal/ingestion"
	"github.com/fmuoria/ai-recruiter/internal/llm"
	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/notify"
	"github.com/fmuoria/ai-recruiter/internal/results"
	"github.com/fmuoria/ai-recruiter/internal/scoring"
	"github.com/fmuoria/ai-recruiter/internal/secrets"
	"github.com/fmuoria/ai-recruiter/internal/sheets"
)

// application is the fully wired pipeline and its background task.
type application struct {
	store    *agent.ResultStore
	pipeline *agent.Pipeline
	task     *agent.Task
	llm      llm.Client
}

func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (*application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	creds, err := google.LoadCredentials(cfg.Google.CredentialsFile)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := google.NewSheetsService(ctx, creds)
	if err != nil {
		return nil, err
	}
	driveSvc, err := google.NewDriveService(ctx, creds)
	if err != nil {
		return nil, err
	}

	source := sheets.NewCandidateSource(sheetsSvc, cfg.Candidates.SpreadsheetID, cfg.Candidates.Range, log)

	files := ingestion.NewFileHandler(cfg.Resumes.Dir, cfg.Resumes.ChunkSize)
	fetcher := ingestion.NewFetcher(ingestion.NewDriveStore(driveSvc, cfg.Resumes.RequestsPerSecond), files, log)

	client, err := llm.New(ctx, cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	scorer := scoring.NewScorer(client,
		logger.WithProvider(log, cfg.AI.Provider, client.Model()),
		scoring.WithRole(cfg.AI.Role),
		scoring.WithMaxLogLength(cfg.AI.MaxLogLength),
	)

	var table results.Table
	switch cfg.Results.Backend {
	case config.ResultsXLSX:
		table = export.NewWorkbook(cfg.Results.Workbook, cfg.Results.Sheet)
	default:
		table = sheets.NewTable(sheetsSvc, cfg.Results.SpreadsheetID, cfg.Results.Sheet)
	}

	transport, err := newTransport(ctx, cfg, creds)
	if err != nil {
		client.Close()
		return nil, err
	}
	notifier := notify.NewNotifier(transport, notify.NewLedger(cfg.Mail.Ledger), cfg.Mail.From, log)
	if !notifier.Enabled() {
		log.Warn("email credentials are not configured, notifications will be skipped")
	}

	store := agent.NewResultStore()
	pipeline := agent.NewPipeline(agent.Dependencies{
		Source:    source,
		Fetcher:   fetcher,
		Extractor: ingestion.NewExtractor(),
		Scorer:    scorer,
		Recorder:  results.NewRecorder(table, log),
		Notifier:  notifier,
	}, store, log)

	return &application{
		store:    store,
		pipeline: pipeline,
		task:     agent.NewTask(pipeline, log),
		llm:      client,
	}, nil
}

// newTransport returns nil when the sender is not configured.
func newTransport(ctx context.Context, cfg *config.Config, creds *google.Credentials) (notify.Transport, error) {
	switch cfg.Mail.Transport {
	case config.TransportGmail:
		if cfg.Mail.From == "" {
			return nil, nil
		}
		svc, err := google.NewGmailService(ctx, creds, cfg.Mail.From)
		if err != nil {
			return nil, err
		}
		return notify.NewGmailTransport(svc), nil
	default:
		password, err := secrets.Optional(secrets.Source{
			Name:  "mail password",
			Value: cfg.Mail.Password,
			File:  cfg.Mail.PasswordFile,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Mail.Username == "" || password == "" {
			return nil, nil
		}
		return notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: password,
		}), nil
	}
}

func (a *application) Close() error {
	return a.llm.Close()
}
