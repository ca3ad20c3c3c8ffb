// Package mongostore implements storage.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playpal/apperr"
	"playpal/models"
)

type Store struct {
	users    *mongo.Collection
	sessions *mongo.Collection
	bookings *mongo.Collection
	messages *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:    db.Collection("users"),
		sessions: db.Collection("sessions"),
		bookings: db.Collection("bookings"),
		messages: db.Collection("messages"),
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true).SetName("unique_email"),
	})
	return err
}

func prefixFilter(field, prefix string) bson.M {
	return bson.M{field: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}}
}

func ciExact(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// ---------- Users ----------

func (s *Store) AddUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	_, err := s.users.ReplaceOne(ctx,
		bson.M{"userid": u.UserID}, u,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return &u, nil
}

func (s *Store) FindUserByIDPrefix(ctx context.Context, prefix string) (*models.User, error) {
	cur, err := s.users.Find(ctx, prefixFilter("userid", prefix), options.Find().SetLimit(2))
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var matches []models.User
	if err := cur.All(ctx, &matches); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	switch len(matches) {
	case 0:
		return nil, apperr.NotFound("user")
	case 1:
		return &matches[0], nil
	default:
		return nil, apperr.ErrAmbiguousPrefix
	}
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		return false, apperr.StorageUnavailable(err)
	}
	return n > 0, nil
}

func (s *Store) AdjustBalance(ctx context.Context, userID string, delta models.Cents) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$inc": bson.M{"balance": int64(delta)}},
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (s *Store) FindApprovedTrainersBySpecialty(ctx context.Context, specialty string) ([]models.User, error) {
	filter := bson.M{
		"role":      models.RoleTrainer,
		"approved":  true,
		"specialty": ciExact(specialty),
	}
	cur, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var trainers []models.User
	if err := cur.All(ctx, &trainers); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return trainers, nil
}

func (s *Store) FindPendingTrainers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{"role": models.RoleTrainer, "approved": false})
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var trainers []models.User
	if err := cur.All(ctx, &trainers); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return trainers, nil
}

func (s *Store) SetTrainerApproved(ctx context.Context, userID string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"userid": userID, "role": models.RoleTrainer},
		bson.M{"$set": bson.M{"approved": true}},
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("trainer")
	}
	return nil
}

func (s *Store) UpdateTrainerProfile(ctx context.Context, userID, specialty string, rate models.Cents) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"userid": userID, "role": models.RoleTrainer},
		bson.M{"$set": bson.M{"specialty": specialty, "rate": int64(rate)}},
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("trainer")
	}
	return nil
}

// ---------- Sessions ----------

func (s *Store) AddSession(ctx context.Context, sess *models.Session) error {
	_, err := s.sessions.ReplaceOne(ctx,
		bson.M{"sessionid": sess.SessionID}, sess,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	return s.AddSession(ctx, sess)
}

func (s *Store) FindAvailableSessionsBySport(ctx context.Context, sport string) ([]models.Session, error) {
	// Full sessions are filtered out by comparing the participant array size
	// against max_participants document-side.
	filter := bson.M{
		"sport": ciExact(sport),
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": "$participant_ids"},
			"$max_participants",
		}},
	}
	cur, err := s.sessions.Find(ctx, filter)
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return out, nil
}

func (s *Store) FindSessionByIDPrefix(ctx context.Context, prefix string) (*models.Session, error) {
	cur, err := s.sessions.Find(ctx, prefixFilter("sessionid", prefix), options.Find().SetLimit(2))
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var matches []models.Session
	if err := cur.All(ctx, &matches); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	switch len(matches) {
	case 0:
		return nil, apperr.NotFound("session")
	case 1:
		return &matches[0], nil
	default:
		return nil, apperr.ErrAmbiguousPrefix
	}
}

func (s *Store) AddParticipantDirectly(ctx context.Context, sessionID, userID string) error {
	// $addToSet keeps the participant list duplicate-free even if two joins
	// race past the membership check.
	res, err := s.sessions.UpdateOne(ctx,
		bson.M{"sessionid": sessionID},
		bson.M{"$addToSet": bson.M{"participant_ids": userID}},
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("session")
	}
	return nil
}

// ---------- Bookings ----------

func (s *Store) AddBooking(ctx context.Context, b *models.Booking) error {
	if _, err := s.bookings.InsertOne(ctx, b); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

func (s *Store) FindBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var b models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("booking")
	}
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return &b, nil
}

func (s *Store) FindBookingsByTrainerID(ctx context.Context, trainerID string) ([]models.Booking, error) {
	cur, err := s.bookings.Find(ctx, bson.M{"trainerid": trainerID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return out, nil
}

// ---------- Messages ----------

func (s *Store) AddMessage(ctx context.Context, m *models.Message) error {
	if _, err := s.messages.InsertOne(ctx, m); err != nil {
		return apperr.StorageUnavailable(err)
	}
	return nil
}

func (s *Store) FindMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	cur, err := s.messages.Find(ctx, bson.M{"receiverid": userID},
		options.Find().SetSort(bson.M{"timestamp": -1}))
	if err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.StorageUnavailable(err)
	}
	return out, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, receiverID, messageID string) error {
	res, err := s.messages.UpdateOne(ctx,
		bson.M{"messageid": messageID, "receiverid": receiverID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return apperr.StorageUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("message")
	}
	return nil
}

// ---------- Counts ----------

func (s *Store) Counts(ctx context.Context) (int64, int64, int64, error) {
	users, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, 0, apperr.StorageUnavailable(err)
	}
	sessions, err := s.sessions.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, 0, apperr.StorageUnavailable(err)
	}
	bookings, err := s.bookings.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, 0, apperr.StorageUnavailable(err)
	}
	return users, sessions, bookings, nil
}
