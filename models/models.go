package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Roles stored on the user document.
const (
	RolePlayer  = "PLAYER"
	RoleTrainer = "TRAINER"
)

// Cents is a currency amount in integer minor units. All balance arithmetic
// is exact; floats never touch money.
type Cents int64

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// CentsFromUnits converts a whole-and-hundredths amount (e.g. 49, 99)
// into Cents.
func CentsFromUnits(units int64, hundredths int64) Cents {
	return Cents(units*100 + hundredths)
}

// PlayerStartingBalance is the fixed grant every new player receives.
const PlayerStartingBalance = Cents(5000)

// User is a player or trainer account. The trainer-only fields are zero
// valued on player documents; Approved defaults to false when absent so
// partial records degrade to the safe state.
type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"` // stored lowercased
	Password  string    `json:"-" bson:"password"`  // bcrypt hash
	Role      string    `json:"role" bson:"role"`
	Balance   Cents     `json:"balance" bson:"balance"`
	Specialty string    `json:"specialty,omitempty" bson:"specialty,omitempty"`
	Rate      Cents     `json:"rate,omitempty" bson:"rate,omitempty"` // per hour
	Approved  bool      `json:"approved" bson:"approved"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (u *User) IsTrainer() bool { return u.Role == RoleTrainer }

// NewPlayer builds a player with the starting grant.
func NewPlayer(name, email, passwordHash string) *User {
	return &User{
		UserID:    uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      RolePlayer,
		Balance:   PlayerStartingBalance,
		CreatedAt: time.Now(),
	}
}

// NewTrainer builds an unapproved trainer with a zero balance.
func NewTrainer(name, email, passwordHash, specialty string, rate Cents) *User {
	return &User{
		UserID:    uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      RoleTrainer,
		Specialty: specialty,
		Rate:      rate,
		CreatedAt: time.Now(),
	}
}

// Session is a group activity created by a player. The creator is always the
// first participant.
type Session struct {
	SessionID       string    `json:"sessionid" bson:"sessionid"`
	CreatorID       string    `json:"creatorid" bson:"creatorid"`
	Sport           string    `json:"sport" bson:"sport"`
	Location        string    `json:"location" bson:"location"`
	Time            time.Time `json:"time" bson:"time"`
	MaxParticipants int       `json:"max_participants" bson:"max_participants"`
	ParticipantIDs  []string  `json:"participant_ids" bson:"participant_ids"`
}

func NewSession(creatorID, sport, location string, at time.Time, maxParticipants int) *Session {
	return &Session{
		SessionID:       uuid.NewString(),
		CreatorID:       creatorID,
		Sport:           sport,
		Location:        location,
		Time:            at,
		MaxParticipants: maxParticipants,
		ParticipantIDs:  []string{creatorID},
	}
}

func (s *Session) IsFull() bool {
	return len(s.ParticipantIDs) >= s.MaxParticipants
}

func (s *Session) HasParticipant(userID string) bool {
	for _, id := range s.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Booking is immutable once persisted.
type Booking struct {
	BookingID string    `json:"bookingid" bson:"bookingid"`
	PlayerID  string    `json:"playerid" bson:"playerid"`
	TrainerID string    `json:"trainerid" bson:"trainerid"`
	Amount    Cents     `json:"amount" bson:"amount"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func NewBooking(playerID, trainerID string, amount Cents) *Booking {
	return &Booking{
		BookingID: uuid.NewString(),
		PlayerID:  playerID,
		TrainerID: trainerID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
}

// SystemSender marks a message as a system notification rather than a user
// message.
const SystemSender = "SYSTEM"

// Message is a user-to-user message or a system notification, distinguished
// by SenderID.
type Message struct {
	MessageID  string    `json:"messageid" bson:"messageid"`
	SenderID   string    `json:"senderid" bson:"senderid"`
	ReceiverID string    `json:"receiverid" bson:"receiverid"`
	Content    string    `json:"content" bson:"content"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Read       bool      `json:"read" bson:"read"`
}

func (m *Message) IsNotification() bool { return m.SenderID == SystemSender }

func NewUserMessage(senderID, receiverID, content string) *Message {
	return &Message{
		MessageID:  uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  time.Now(),
	}
}

func NewNotification(receiverID, content string) *Message {
	return &Message{
		MessageID:  uuid.NewString(),
		SenderID:   SystemSender,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  time.Now(),
	}
}
