package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const otpCollection = "otp_codes"

// otpDocument is one challenge. PurgeAt drives the TTL index and is the
// later of the two deadlines.
type otpDocument struct {
	Email         string     `bson:"_id"`
	CodeHash      string     `bson:"code_hash"`
	ExpiresAt     time.Time  `bson:"expires_at"`
	Attempts      int        `bson:"attempts"`
	VerifiedUntil *time.Time `bson:"verified_until,omitempty"`
	PurgeAt       time.Time  `bson:"purge_at"`
}

func (d otpDocument) toChallenge() otp.Challenge {
	return otp.Challenge{
		Email:         d.Email,
		CodeHash:      d.CodeHash,
		ExpiresAt:     d.ExpiresAt,
		Attempts:      d.Attempts,
		VerifiedUntil: d.VerifiedUntil,
	}
}

type otpStore struct {
	coll *mongo.Collection
}

// NewOTPStore keys documents by normalized email and lets a TTL index on
// purge_at expire stale challenges.
func NewOTPStore(ctx context.Context, db *database.MongoDB) (otp.Store, error) {
	coll := db.Collection(otpCollection)

	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "purge_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return nil, fmt.Errorf("create otp_codes indexes: %w", err)
	}

	return &otpStore{coll: coll}, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *otpStore) SaveCode(ctx context.Context, email, codeHash string, issuedAt, expiresAt time.Time) error {
	// Attempts are computed from the replaced document before the new
	// deadline is written.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"attempts": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$expires_at", issuedAt}},
				bson.M{"$ifNull": bson.A{"$attempts", 0}},
				0,
			}},
		}}},
		{{Key: "$set", Value: bson.M{
			"code_hash":  codeHash,
			"expires_at": expiresAt,
			"purge_at":   expiresAt,
		}}},
		{{Key: "$unset", Value: "verified_until"}},
	}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": normalize(email)}, pipeline, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save otp code: %w", err)
	}
	return nil
}

func (s *otpStore) Get(ctx context.Context, email string) (otp.Challenge, error) {
	var doc otpDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": normalize(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return otp.Challenge{}, otp.ErrChallengeNotFound
	}
	if err != nil {
		return otp.Challenge{}, fmt.Errorf("find otp challenge: %w", err)
	}
	return doc.toChallenge(), nil
}

func (s *otpStore) ReserveAttempt(ctx context.Context, email string, maxAttempts int) (otp.Challenge, error) {
	filter := bson.M{
		"_id":      normalize(email),
		"attempts": bson.M{"$lt": maxAttempts},
	}
	update := bson.M{"$inc": bson.M{"attempts": 1}}

	var doc otpDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return otp.Challenge{}, otp.ErrChallengeNotFound
	}
	if err != nil {
		return otp.Challenge{}, fmt.Errorf("reserve otp attempt: %w", err)
	}
	return doc.toChallenge(), nil
}

func (s *otpStore) MarkVerified(ctx context.Context, email string, until time.Time) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": normalize(email)}, bson.M{
		"$set": bson.M{
			"code_hash":      "",
			"attempts":       0,
			"verified_until": until,
			"purge_at":       until,
		},
	})
	if err != nil {
		return fmt.Errorf("mark otp verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return otp.ErrChallengeNotFound
	}
	return nil
}

func (s *otpStore) ConsumeVerified(ctx context.Context, email string, now time.Time) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{
		"_id":            normalize(email),
		"verified_until": bson.M{"$gt": now},
	})
	if err != nil {
		return false, fmt.Errorf("consume otp verification: %w", err)
	}
	return res.DeletedCount == 1, nil
}
