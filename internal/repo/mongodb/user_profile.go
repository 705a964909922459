package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/voice-bot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileInfo is the mutable restaurant-attribute slice of a profile,
// written by onboarding and the edit form.
type ProfileInfo struct {
	RestaurantName     string
	SeatingCapacity    int
	Address            string
	Menu               string
	CallTransferNumber string
}

// ModeSettings is the user-editable part of a mode's configuration.
// Vendor resource references are written separately by the provisioner
// so a settings save never clobbers them.
type ModeSettings struct {
	BotName      string
	Tone         string
	BeginMessage string
	Model        string
}

type UserProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateInfo(ctx context.Context, id string, info ProfileInfo) error
	UpdateModeSettings(ctx context.Context, id string, mode models.Mode, settings ModeSettings) error
	SetModeRefs(ctx context.Context, id string, mode models.Mode, llm *models.LLMData, agent *models.AgentData) error
	MergeCallRecord(ctx context.Context, id string, mode models.Mode, callID string, record models.CallRecord) error
	MergeSharedCallRecord(ctx context.Context, id string, callID string, record models.CallRecord) error
}

type userProfileRepo struct {
	collection *mongo.Collection
}

func NewUserProfileRepository(db *DB) UserProfileRepository {
	return &userProfileRepo{
		collection: db.Database.Collection("users"),
	}
}

func (r *userProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return fmt.Errorf("create user profile: %w", err)
	}
	return nil
}

func (r *userProfileRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &profile, nil
}

func (r *userProfileRepo) UpdateInfo(ctx context.Context, id string, info ProfileInfo) error {
	set := bson.M{
		"restaurant_name":      info.RestaurantName,
		"seating_capacity":     info.SeatingCapacity,
		"address":              info.Address,
		"menu":                 info.Menu,
		"call_transfer_number": info.CallTransferNumber,
	}
	return r.updateOne(ctx, id, buildMergeUpdate(set, time.Now()))
}

func (r *userProfileRepo) UpdateModeSettings(ctx context.Context, id string, mode models.Mode, settings ModeSettings) error {
	set := bson.M{}
	for field, value := range map[string]string{
		"bot_name":      settings.BotName,
		"tone":          settings.Tone,
		"begin_message": settings.BeginMessage,
		"model":         settings.Model,
	} {
		path, err := modePath(mode, field)
		if err != nil {
			return err
		}
		set[path] = value
	}
	return r.updateOne(ctx, id, buildMergeUpdate(set, time.Now()))
}

func (r *userProfileRepo) SetModeRefs(ctx context.Context, id string, mode models.Mode, llm *models.LLMData, agent *models.AgentData) error {
	set := bson.M{}
	if llm != nil {
		path, err := modePath(mode, "llm_data")
		if err != nil {
			return err
		}
		set[path] = llm
	}
	if agent != nil {
		path, err := modePath(mode, "agent_data")
		if err != nil {
			return err
		}
		set[path] = agent
	}
	if len(set) == 0 {
		return nil
	}
	return r.updateOne(ctx, id, buildMergeUpdate(set, time.Now()))
}

// MergeCallRecord sets analytics.<mode>.<callID> and nothing else, so a
// record landing never disturbs other calls, other modes, or profile
// fields. Writing the same record twice is a no-op by construction.
func (r *userProfileRepo) MergeCallRecord(ctx context.Context, id string, mode models.Mode, callID string, record models.CallRecord) error {
	path, err := analyticsPath(mode, callID)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, id, buildMergeUpdate(bson.M{path: record}, time.Now()))
}

func (r *userProfileRepo) MergeSharedCallRecord(ctx context.Context, id string, callID string, record models.CallRecord) error {
	path, err := sharedAnalyticsPath(callID)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, id, buildMergeUpdate(bson.M{path: record}, time.Now()))
}

func (r *userProfileRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
