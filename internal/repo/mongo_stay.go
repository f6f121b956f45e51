package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GuyBarda/airbxb-backend/internal/domain"
)

// StayCollection is the MongoDB collection holding stays.
const StayCollection = "stay"

// stayDocument is the stored shape of a stay: the domain fields inlined next
// to the native ObjectID.
type stayDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.Stay `bson:",inline"`
}

func (d stayDocument) toDomain() domain.Stay {
	s := d.Stay
	s.ID = d.ID.Hex()
	return s
}

// mongoStayRepo is the MongoDB implementation of StayRepo.
type mongoStayRepo struct {
	db *mongo.Database
}

// NewMongoStayRepo constructs a StayRepo backed by the given database.
func NewMongoStayRepo(db *mongo.Database) StayRepo {
	return &mongoStayRepo{db: db}
}

func (r *mongoStayRepo) collection() *mongo.Collection {
	return r.db.Collection(StayCollection)
}

// List counts every match, then fetches the requested page in natural order.
func (r *mongoStayRepo) List(ctx context.Context, f domain.StayFilter) ([]domain.Stay, int64, error) {
	criteria := BuildMongoCriteria(f)
	coll := r.collection()

	total, err := coll.CountDocuments(ctx, criteria)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MongoStayRepo.List: count: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(f.Offset())).
		SetLimit(domain.StayPageSize)

	cur, err := coll.Find(ctx, criteria, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.MongoStayRepo.List: %w", err)
	}
	defer cur.Close(ctx)

	var docs []stayDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("repo.MongoStayRepo.List: decode: %w", err)
	}

	stays := make([]domain.Stay, len(docs))
	for i, d := range docs {
		stays[i] = d.toDomain()
	}
	return stays, total, nil
}

func (r *mongoStayRepo) GetByID(ctx context.Context, id string) (domain.Stay, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.MongoStayRepo.GetByID: %w", err)
	}

	var doc stayDocument
	err = r.collection().FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Stay{}, fmt.Errorf("repo.MongoStayRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.Stay{}, fmt.Errorf("repo.MongoStayRepo.GetByID: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoStayRepo) Create(ctx context.Context, stay domain.Stay) (domain.Stay, error) {
	stay.ID = ""
	res, err := r.collection().InsertOne(ctx, stayDocument{Stay: stay})
	if err != nil {
		return domain.Stay{}, fmt.Errorf("repo.MongoStayRepo.Create: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Stay{}, fmt.Errorf("repo.MongoStayRepo.Create: unexpected inserted id %T", res.InsertedID)
	}
	stay.ID = oid.Hex()
	return stay, nil
}

// Update $sets the listed fields. The ID is carried only in the selector.
func (r *mongoStayRepo) Update(ctx context.Context, stay domain.Stay, fields []string) error {
	oid, err := parseObjectID(stay.ID)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.Update: %w", err)
	}

	set, err := bsonPatch(stay, fields)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.Update: %w", err)
	}
	if len(set) == 0 {
		return nil
	}

	_, err = r.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.Update: %w", err)
	}
	return nil
}

func (r *mongoStayRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.Delete: %w", err)
	}

	if _, err := r.collection().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("repo.MongoStayRepo.Delete: %w", err)
	}
	return nil
}

func (r *mongoStayRepo) PushMessage(ctx context.Context, stayID string, msg domain.Message) error {
	oid, err := parseObjectID(stayID)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.PushMessage: %w", err)
	}

	_, err = r.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "msgs", Value: msg}}}},
	)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.PushMessage: %w", err)
	}
	return nil
}

func (r *mongoStayRepo) PullMessage(ctx context.Context, stayID, msgID string) error {
	oid, err := parseObjectID(stayID)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.PullMessage: %w", err)
	}

	_, err = r.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "msgs", Value: bson.D{{Key: "id", Value: msgID}}}}}},
	)
	if err != nil {
		return fmt.Errorf("repo.MongoStayRepo.PullMessage: %w", err)
	}
	return nil
}

// parseObjectID converts a hex string into an ObjectID.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}

// bsonPatch returns the update's $set document: the updatable fields named
// in fields. A field stay omits when empty is set to null.
func bsonPatch(stay domain.Stay, fields []string) (bson.M, error) {
	raw, err := bson.Marshal(stay)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal patch: %w", err)
	}
	fields = domain.UpdatableFields(fields)
	set := make(bson.M, len(fields))
	for _, k := range fields {
		set[k] = doc[k]
	}
	return set, nil
}
