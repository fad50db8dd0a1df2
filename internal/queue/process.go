package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/metrics"
	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/graph"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/go-playground/validator"
)

// Processor turns job messages into replies. Errors returned by Process are
// infrastructure failures and should be retried; problems with the input
// itself are reported inside the reply.
type Processor struct {
	// Files resolves Key jobs. Nil disables them.
	Files        loader.TableFileLoader
	FetchRetries int
	Backoff      time.Duration

	validate *validator.Validate
}

type NewProcessorParams struct {
	Files        loader.TableFileLoader
	FetchRetries int
	Backoff      time.Duration
}

func NewProcessor(params NewProcessorParams) *Processor {
	retries := params.FetchRetries
	if retries <= 0 {
		retries = 3
	}
	return &Processor{
		Files:        params.Files,
		FetchRetries: retries,
		Backoff:      params.Backoff,
		validate:     validator.New(),
	}
}

// Process handles one message body from queueName.
func (p *Processor) Process(ctx context.Context, queueName string, body []byte) (JobReply, error) {
	var msg TableJobMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		metrics.ObserveFailure(metrics.SourceWorker, "invalid_message")
		return failed("Invalid message body"), nil
	}
	if err := p.validate.Struct(msg); err != nil {
		metrics.ObserveFailure(metrics.SourceWorker, "invalid_message")
		return failed("Message must carry content or key"), nil
	}

	text, reply, err := p.resolveText(ctx, msg)
	if err != nil || reply != nil {
		return derefReply(reply), err
	}

	start := time.Now()
	switch queueName {
	case ParseQueue:
		tree, err := graph.ParseTable(text)
		if err != nil {
			metrics.ObserveFailure(metrics.SourceWorker, "malformed_csv")
			return failed(fmt.Sprintf("Failed to parse CSV: %v", err)), nil
		}
		metrics.ObserveTree(metrics.SourceWorker, metrics.OperationParse, tree.Len(), tree.Relationships(), time.Since(start))
		logger.Debug("[Queue] Parsed table", "people", tree.Len(), "relationships", len(tree.Relationships()))
		return JobReply{Success: true, Data: tree}, nil
	case ValidateQueue:
		report, err := graph.ValidateTable(text)
		if err != nil {
			metrics.ObserveFailure(metrics.SourceWorker, "malformed_csv")
			return failed(fmt.Sprintf("Failed to parse CSV: %v", err)), nil
		}
		metrics.ObserveReport(metrics.SourceWorker, report, time.Since(start))
		logger.Debug("[Queue] Validated table", "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))
		return JobReply{Success: true, Data: report}, nil
	default:
		return JobReply{}, fmt.Errorf("unknown queue %q", queueName)
	}
}

// resolveText returns the CSV text of msg. A non-nil reply means the input
// was rejected and processing stops there.
func (p *Processor) resolveText(ctx context.Context, msg TableJobMsg) (string, *JobReply, error) {
	if msg.Content != "" {
		if msg.Key != "" {
			r := failed("Message must carry either content or key, not both")
			return "", &r, nil
		}
		return msg.Content, nil, nil
	}

	if p.Files == nil {
		r := failed("Table storage is not configured")
		return "", &r, nil
	}

	file := loader.NewCSVTableFile(loader.NewTableFileParams{
		ID:       msg.Key,
		FilePath: msg.Key,
		Loader:   p.Files,
	})
	text, err := util.RetryWithContext(ctx, p.FetchRetries, p.Backoff, func(ctx context.Context) (string, error) {
		text, err := file.GetText(ctx)
		if errors.Is(err, loader.ErrNotFound) || errors.Is(err, loader.ErrInvalidEncoding) {
			return "", util.Permanent(err)
		}
		return text, err
	})
	switch {
	case errors.Is(err, loader.ErrNotFound):
		metrics.ObserveFailure(metrics.SourceWorker, "not_found")
		r := failed("Table file not found")
		return "", &r, nil
	case errors.Is(err, loader.ErrInvalidEncoding):
		metrics.ObserveFailure(metrics.SourceWorker, "invalid_encoding")
		r := failed("File must be UTF-8 encoded")
		return "", &r, nil
	case err != nil:
		return "", nil, fmt.Errorf("failed to fetch table %s: %w", msg.Key, err)
	}
	return text, nil, nil
}

func derefReply(r *JobReply) JobReply {
	if r == nil {
		return JobReply{}
	}
	return *r
}
