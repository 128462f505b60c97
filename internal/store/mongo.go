// Package store provides the Mongo-backed persistence layer for observations
// and accounts, plus an in-memory implementation used in tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/i474232898/weather-dashboard/internal/users"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	observationsCollection = "weather_logs"
	usersCollection        = "users"
)

// Mongo implements weather.Store and users.Store on top of a Mongo database.
type Mongo struct {
	client       *mongo.Client
	observations *mongo.Collection
	users        *mongo.Collection
}

// NewMongo connects, pings, and prepares the collections and indexes.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	m := &Mongo{
		client:       client,
		observations: db.Collection(observationsCollection),
		users:        db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.observations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create observation index: %w", err)
	}

	_, err = m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

type observationDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Source              string             `bson:"source"`
	ObsTimestamp        string             `bson:"obs_timestamp,omitempty"`
	Timestamp           time.Time          `bson:"timestamp"`
	Temperature         float64            `bson:"temperature"`
	Windspeed           float64            `bson:"windspeed"`
	Humidity            float64            `bson:"humidity"`
	UVIndex             float64            `bson:"uvIndex"`
	PrecipitationChance float64            `bson:"precipitationChance"`
	HeatIndex           float64            `bson:"heatIndex"`
	Condition           string             `bson:"condition,omitempty"`
}

func (d observationDoc) toObservation() weather.Observation {
	return weather.Observation{
		ID:                  d.ID.Hex(),
		Source:              d.Source,
		ObsTimestamp:        d.ObsTimestamp,
		Timestamp:           d.Timestamp.UTC(),
		Temperature:         d.Temperature,
		Windspeed:           d.Windspeed,
		Humidity:            d.Humidity,
		UVIndex:             d.UVIndex,
		PrecipitationChance: d.PrecipitationChance,
		HeatIndex:           d.HeatIndex,
		Condition:           d.Condition,
	}
}

// InsertObservation persists one observation and returns the assigned id.
func (m *Mongo) InsertObservation(ctx context.Context, obs weather.Observation) (string, error) {
	doc := observationDoc{
		Source:              obs.Source,
		ObsTimestamp:        obs.ObsTimestamp,
		Timestamp:           obs.Timestamp.UTC(),
		Temperature:         obs.Temperature,
		Windspeed:           obs.Windspeed,
		Humidity:            obs.Humidity,
		UVIndex:             obs.UVIndex,
		PrecipitationChance: obs.PrecipitationChance,
		HeatIndex:           obs.HeatIndex,
		Condition:           obs.Condition,
	}

	res, err := m.observations.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// ListObservations returns observations inside the window, newest first.
func (m *Mongo) ListObservations(ctx context.Context, r weather.Range) ([]weather.Observation, error) {
	filter := bson.M{}
	ts := bson.M{}
	if r.Start != nil {
		ts["$gte"] = *r.Start
	}
	if r.End != nil {
		ts["$lte"] = *r.End
	}
	if len(ts) > 0 {
		filter["timestamp"] = ts
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := m.observations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []observationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]weather.Observation, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toObservation())
	}
	return result, nil
}

// LatestObservation returns the most recent observation.
func (m *Mongo) LatestObservation(ctx context.Context) (weather.Observation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var doc observationDoc
	err := m.observations.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return weather.Observation{}, weather.ErrNotFound
		}
		return weather.Observation{}, err
	}
	return doc.toObservation(), nil
}

// GetObservation returns one observation by hex id.
func (m *Mongo) GetObservation(ctx context.Context, id string) (weather.Observation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return weather.Observation{}, weather.ErrNotFound
	}

	var doc observationDoc
	err = m.observations.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return weather.Observation{}, weather.ErrNotFound
		}
		return weather.Observation{}, err
	}
	return doc.toObservation(), nil
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Name         string             `bson:"name,omitempty"`
	IsAdmin      bool               `bson:"isAdmin"`
}

func (d userDoc) toUser() users.User {
	return users.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		IsAdmin:      d.IsAdmin,
	}
}

// InsertUser persists one account. The unique email index turns concurrent
// duplicates into users.ErrEmailExists.
func (m *Mongo) InsertUser(ctx context.Context, u users.User) (users.User, error) {
	doc := userDoc{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		IsAdmin:      u.IsAdmin,
	}

	res, err := m.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.User{}, users.ErrEmailExists
		}
		return users.User{}, err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return users.User{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	u.ID = oid.Hex()
	return u, nil
}

// ListUsers returns all accounts.
func (m *Mongo) ListUsers(ctx context.Context) ([]users.User, error) {
	cur, err := m.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]users.User, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toUser())
	}
	return result, nil
}

// GetUser returns one account by hex id.
func (m *Mongo) GetUser(ctx context.Context, id string) (users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return users.User{}, users.ErrNotFound
	}

	var doc userDoc
	err = m.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return doc.toUser(), nil
}

// GetUserByEmail returns one account by email.
func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	var doc userDoc
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return doc.toUser(), nil
}

// UpdateUser replaces the stored account record.
func (m *Mongo) UpdateUser(ctx context.Context, u users.User) error {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return users.ErrNotFound
	}

	doc := userDoc{
		ID:           oid,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		IsAdmin:      u.IsAdmin,
	}

	res, err := m.users.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.ErrEmailExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

// DeleteUser removes one account by hex id.
func (m *Mongo) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return users.ErrNotFound
	}

	res, err := m.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}
