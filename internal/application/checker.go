package application

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"msigcheck/internal/config"
	"msigcheck/internal/domain"
	"msigcheck/internal/infrastructure/logging"
	"msigcheck/internal/infrastructure/telemetry"
)

type ValidatorSource interface {
	Validators(ctx context.Context) ([]domain.Validator, error)
}

type QueueSource interface {
	QueuedTransactions(ctx context.Context) ([]domain.QueueEntry, error)
	TransactionDetails(ctx context.Context, id string) (domain.DecodedCall, error)
}

type CheckerConfig struct {
	ExpectedTo     string
	TargetMethod   string
	ArrayParam     string
	ExpectedStatus string
}

// Report summarises one validation pass.
type Report struct {
	Validators        int
	QueueTransactions int
	Matching          int
	Keys              []domain.CandidateKey
	Duplicate         bool
	Issues            []domain.KeyStatus
}

type Checker struct {
	validators ValidatorSource
	queue      QueueSource
	log        logging.Logger
	cfg        CheckerConfig
}

func NewChecker(validators ValidatorSource, queue QueueSource, logger logging.Logger, cfg CheckerConfig) (*Checker, error) {
	if validators == nil || queue == nil {
		return nil, errors.New("checker sources must not be nil")
	}
	if cfg.ExpectedTo == "" {
		return nil, errors.New("expected destination address is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TargetMethod == "" {
		cfg.TargetMethod = config.DefaultTargetMethod
	}
	if cfg.ArrayParam == "" {
		cfg.ArrayParam = config.DefaultArrayParam
	}
	if cfg.ExpectedStatus == "" {
		cfg.ExpectedStatus = config.DefaultExpectedStatus
	}
	return &Checker{validators: validators, queue: queue, log: logger, cfg: cfg}, nil
}

// Run performs one validation pass. Anomalies are logged and reported; only
// fetch and decode failures are returned as errors.
func (c *Checker) Run(ctx context.Context) (report Report, err error) {
	ctx, span := otel.Tracer("msigcheck/application").Start(ctx, "msigcheck.run")
	defer func() {
		span.SetAttributes(
			attribute.Int("validators.count", report.Validators),
			attribute.Int("queue.transactions", report.QueueTransactions),
			attribute.Int("queue.matching", report.Matching),
			attribute.Int("keys.count", len(report.Keys)),
			attribute.Int("keys.issues", len(report.Issues)),
			attribute.Bool("keys.duplicate", report.Duplicate),
		)
		telemetry.Fail(span, err)
		span.End()
	}()

	c.log.Info("[Start] Validating MSIG validators to add data...")

	var (
		validators    []domain.Validator
		entries       []domain.QueueEntry
		validatorsErr error
		g             errgroup.Group
	)
	g.Go(func() error {
		validators, validatorsErr = c.validators.Validators(ctx)
		return validatorsErr
	})
	g.Go(func() error {
		var err error
		entries, err = c.queue.QueuedTransactions(ctx)
		return err
	})
	waitErr := g.Wait()
	if validatorsErr != nil {
		return report, validatorsErr
	}

	report.Validators = len(validators)
	c.log.Info("Got", len(validators), "validators from the API")
	if waitErr != nil {
		return report, waitErr
	}

	matching := FilterByMethod(entries, c.cfg.TargetMethod)
	report.QueueTransactions = CountTransactions(entries)
	report.Matching = len(matching)
	c.log.Info(fmt.Sprintf("Got %d transactions in the MSIG queue, %d of which are %s",
		report.QueueTransactions, report.Matching, c.cfg.TargetMethod))

	for _, tx := range matching {
		call, err := c.queue.TransactionDetails(ctx, tx.ID)
		if err != nil {
			return report, err
		}
		if tx.To != c.cfg.ExpectedTo {
			c.log.Error(fmt.Sprintf("[#%d] Wrong to_address of %s, should be %s", tx.Nonce, displayAddress(tx.To), c.cfg.ExpectedTo))
			continue
		}
		keys, ok, err := ExtractKeys(call, c.cfg.TargetMethod, c.cfg.ArrayParam, tx.Nonce)
		if err != nil {
			return report, fmt.Errorf("transaction #%d: %w", tx.Nonce, err)
		}
		if !ok {
			continue
		}
		c.log.Info(fmt.Sprintf("For tx #%d, we got %d validator public keys to add", tx.Nonce, len(keys)))
		report.Keys = append(report.Keys, keys...)
	}

	c.log.Info("Got a total of", len(report.Keys), "public keys to add")

	if HasDuplicates(report.Keys) {
		report.Duplicate = true
		c.log.Error("Duplicate keys found in enqueued transactions")
		return report, nil
	}
	c.log.Info("There are no duplicate keys in the enqueued transactions")

	report.Issues = Issues(JoinStatuses(report.Keys, validators), c.cfg.ExpectedStatus)
	if len(report.Issues) > 0 {
		for _, issue := range report.Issues {
			c.log.Error(describeIssue(issue))
		}
		c.log.Error("Got", len(report.Issues), "total keys with issues")
	} else {
		c.log.Info("All", len(report.Keys), "keys are good to go")
	}

	c.log.Info("[End] Validated MSIG validators to add data")
	return report, nil
}

func displayAddress(address string) string {
	if address == "" {
		return "<none>"
	}
	return address
}
