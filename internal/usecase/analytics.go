package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
)

// ErrAnalyticsNotReady means the vendor never produced a populated call
// record within the retry budget. Nothing was written.
var ErrAnalyticsNotReady = errors.New("call analytics not ready after max attempts")

// CallAnalytics fetches finalized call analytics from the vendor and
// merges them into the owner's analytics partition.
type CallAnalytics interface {
	// RetrieveAndStore polls the vendor until the call record is
	// available or the attempt budget runs out, then merge-writes it
	// under analytics.<mode>.<callID>. Invoked once per call
	// termination.
	RetrieveAndStore(ctx context.Context, userID, callID string, mode models.Mode) error

	// StoreRetrieved persists an already-retrieved record with the same
	// merge semantics; the relayed path for shared viewers that cannot
	// write the store directly.
	StoreRetrieved(ctx context.Context, userID, callID string, mode models.Mode, record models.CallRecord) error

	// StoreShared persists into the legacy un-partitioned bucket.
	StoreShared(ctx context.Context, userID, callID string, record models.CallRecord) error
}

type callAnalytics struct {
	conf        *config.Config
	profileRepo mongodb.UserProfileRepository
	vendor      retell.Client
}

func NewCallAnalytics(
	conf *config.Config,
	profileRepo mongodb.UserProfileRepository,
	vendor retell.Client,
) CallAnalytics {
	return &callAnalytics{
		conf:        conf,
		profileRepo: profileRepo,
		vendor:      vendor,
	}
}

func (a *callAnalytics) RetrieveAndStore(ctx context.Context, userID, callID string, mode models.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}

	record, err := a.poll(ctx, callID)
	if err != nil {
		return err
	}

	if err := a.profileRepo.MergeCallRecord(ctx, userID, mode, callID, *record); err != nil {
		return fmt.Errorf("merge call record: %w", err)
	}

	log.Infow(ctx, "call analytics stored", "user_id", userID, "call_id", callID, "mode", mode)
	return nil
}

// poll runs the bounded retrieval loop: a fixed delay before each
// attempt, up to MaxAttempts attempts. The vendor finalizes transcripts,
// sentiment and costs asynchronously after teardown, so a success
// status with an empty body means "not ready yet" and is retried; a
// non-success status is fatal immediately.
func (a *callAnalytics) poll(ctx context.Context, callID string) (*models.CallRecord, error) {
	maxAttempts := a.conf.Analytics.MaxAttempts
	interval := a.conf.Analytics.PollInterval

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		record, err := a.vendor.GetCall(ctx, callID)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}
		if record == nil {
			log.Debugw(ctx, "call analytics not ready, retrying",
				"call_id", callID, "attempt", attempt, "max_attempts", maxAttempts)
			continue
		}
		return record, nil
	}

	return nil, ErrAnalyticsNotReady
}

func (a *callAnalytics) StoreRetrieved(ctx context.Context, userID, callID string, mode models.Mode, record models.CallRecord) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	if err := a.profileRepo.MergeCallRecord(ctx, userID, mode, callID, record); err != nil {
		return fmt.Errorf("merge call record: %w", err)
	}
	return nil
}

func (a *callAnalytics) StoreShared(ctx context.Context, userID, callID string, record models.CallRecord) error {
	if err := a.profileRepo.MergeSharedCallRecord(ctx, userID, callID, record); err != nil {
		return fmt.Errorf("merge shared call record: %w", err)
	}
	return nil
}
