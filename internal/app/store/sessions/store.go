// Package sessions records operator sign-in sessions so the activity
// page can show who was in the dashboard and when. The cookie session
// is the source of truth for auth; these records are bookkeeping.
package sessions

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// End reasons
const (
	EndLogout  = "logout"
	EndTimeout = "timeout"
)

// Session is one operator sign-in.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	UserName     string             `bson:"user_name,omitempty"`
	Role         string             `bson:"role,omitempty"`
	LoginAt      time.Time          `bson:"login_at"`
	LogoutAt     *time.Time         `bson:"logout_at,omitempty"`
	LastActiveAt time.Time          `bson:"last_active_at"`
	EndReason    string             `bson:"end_reason,omitempty"`
	IP           string             `bson:"ip"`
	UserAgent    string             `bson:"user_agent,omitempty"`
	DurationSecs int64              `bson:"duration_secs,omitempty"`
}

// Store manages sign-in session records.
type Store struct {
	c *mongo.Collection
}

// New creates a new session Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("signin_sessions")}
}

// EnsureIndexes creates the indexes the cleanup worker depends on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "login_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_user"),
		},
		{
			Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "last_active_at", Value: 1}},
			Options: options.Index().SetName("idx_sessions_open"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a new sign-in, closing any still-open session for the
// same user first so a user has at most one open session.
func (s *Store) Create(ctx context.Context, sess Session) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	_, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": sess.UserID, "logout_at": nil},
		bson.M{"$set": bson.M{"logout_at": now, "end_reason": EndTimeout}},
	)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if sess.LoginAt.IsZero() {
		sess.LoginAt = now
	}
	sess.LastActiveAt = sess.LoginAt

	res, err := s.c.InsertOne(ctx, sess)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

// Touch bumps LastActiveAt on the user's open session.
func (s *Store) Touch(ctx context.Context, userID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "logout_at": nil},
		bson.M{"$set": bson.M{"last_active_at": time.Now().UTC()}},
	)
	return err
}

// Close ends the user's open session with the given reason.
func (s *Store) Close(ctx context.Context, userID, reason string) error {
	now := time.Now().UTC()
	var open Session
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "logout_at": nil}).Decode(&open)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": open.ID},
		bson.M{"$set": bson.M{
			"logout_at":     now,
			"end_reason":    reason,
			"duration_secs": int64(now.Sub(open.LoginAt).Seconds()),
		}},
	)
	return err
}

// CloseInactiveSessions ends open sessions idle longer than maxIdle.
// Returns the number closed.
func (s *Store) CloseInactiveSessions(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxIdle)
	cur, err := s.c.Find(ctx, bson.M{
		"logout_at":      nil,
		"last_active_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var closed int64
	for cur.Next(ctx) {
		var open Session
		if err := cur.Decode(&open); err != nil {
			continue
		}
		_, err := s.c.UpdateOne(ctx,
			bson.M{"_id": open.ID},
			bson.M{"$set": bson.M{
				"logout_at":     open.LastActiveAt,
				"end_reason":    EndTimeout,
				"duration_secs": int64(open.LastActiveAt.Sub(open.LoginAt).Seconds()),
			}},
		)
		if err != nil {
			return closed, err
		}
		closed++
	}
	return closed, cur.Err()
}

// Recent returns the latest sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "login_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
