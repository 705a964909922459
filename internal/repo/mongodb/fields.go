package mongodb

import (
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Dotted field paths are the store's partial-update primitive: a $set
// on one path never touches sibling fields. Every path is derived here,
// from a mode already validated against the closed set, so no caller
// ever concatenates field names on its own.

func analyticsPath(mode models.Mode, callID string) (string, error) {
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	if callID == "" {
		return "", fmt.Errorf("empty call id")
	}
	return fmt.Sprintf("analytics.%s.%s", mode, callID), nil
}

func sharedAnalyticsPath(callID string) (string, error) {
	if callID == "" {
		return "", fmt.Errorf("empty call id")
	}
	return fmt.Sprintf("shared_analytics.%s", callID), nil
}

func modePath(mode models.Mode, field string) (string, error) {
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	return fmt.Sprintf("modes.%s.%s", mode, field), nil
}

// buildMergeUpdate wraps a set of dotted-path assignments into one
// update document, stamping updated_at alongside.
func buildMergeUpdate(set bson.M, now time.Time) bson.M {
	merged := bson.M{"updated_at": now}
	for path, value := range set {
		merged[path] = value
	}
	return bson.M{"$set": merged}
}
