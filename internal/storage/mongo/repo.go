package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripsmith/internal/domain"
)

// Connect opens and pings a client. Callers own Disconnect.
func Connect(ctx context.Context, uri string) (*mongodrv.Client, error) {
	client, err := mongodrv.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

type Repo struct{ col *mongodrv.Collection }

func New(client *mongodrv.Client, db, collection string) *Repo {
	return &Repo{col: client.Database(db).Collection(collection)}
}

type tripDoc struct {
	ID        string       `bson:"_id"`
	UserEmail string       `bson:"userEmail"`
	CreatedAt time.Time    `bson:"createdAt"`
	Selection selectionDoc `bson:"userSelection"`
	TripData  any          `bson:"tripData,omitempty"`
}

type selectionDoc struct {
	Destination string `bson:"destination"`
	Days        int    `bson:"days"`
	Budget      string `bson:"budget"`
	Travelers   string `bson:"travelers"`
}

func toDoc(rec domain.TripRecord) tripDoc {
	return tripDoc{
		ID:        rec.ID,
		UserEmail: rec.UserEmail,
		CreatedAt: rec.CreatedAt,
		Selection: selectionDoc(rec.Selection),
		TripData:  rec.TripData,
	}
}

func toDomain(d tripDoc) domain.TripRecord {
	return domain.TripRecord{
		ID:        d.ID,
		UserEmail: d.UserEmail,
		CreatedAt: d.CreatedAt,
		Selection: domain.TripSelection(d.Selection),
		TripData:  plainValue(d.TripData),
	}
}

// plainValue flattens the driver's document types into plain maps/slices so
// the parser sees the same shapes JSON decoding would produce.
func plainValue(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case bson.A:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = plainValue(e)
		}
		return s
	default:
		return v
	}
}

func (r *Repo) Insert(ctx context.Context, rec domain.TripRecord) error {
	_, err := r.col.InsertOne(ctx, toDoc(rec))
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (domain.TripRecord, error) {
	var d tripDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return domain.TripRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.TripRecord{}, err
	}
	return toDomain(d), nil
}

func (r *Repo) ListByOwner(ctx context.Context, userEmail string) ([]domain.TripRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userEmail": userEmail}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.TripRecord
	for cur.Next(ctx) {
		var d tripDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, toDomain(d))
	}
	return out, cur.Err()
}

func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var d struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.ID)
	}
	return out, cur.Err()
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
