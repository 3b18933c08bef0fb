package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/metrics"
)

// NewMongo builds all stores over db.
func NewMongo(db *mongo.Database) Stores {
	return Stores{
		Watches: NewMongoWatches(db),
		Carts:   NewMongoCarts(db),
		Users:   NewMongoUsers(db),
	}
}

func observe(collection, op string, start time.Time, errp *error) {
	metrics.ObserveStoreOp(collection, op, start, errp, ErrNotFound, ErrDuplicate)
}

func after() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// decodeOne maps a missing document to ErrNotFound.
func decodeOne(res *mongo.SingleResult, dest any) error {
	if err := res.Decode(dest); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ─── Watches ──────────────────────────────────────────────────────────────────

type MongoWatches struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoWatches(db *mongo.Database) *MongoWatches {
	return &MongoWatches{col: db.Collection("watches"), now: time.Now}
}

func (s *MongoWatches) Create(ctx context.Context, w *models.Watch) (err error) {
	defer observe("watches", "create", time.Now(), &err)

	now := s.now().UTC()
	w.ID = primitive.NilObjectID
	w.CreatedAt, w.UpdatedAt = now, now

	res, err := s.col.InsertOne(ctx, w)
	if err != nil {
		return fmt.Errorf("watches: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("watches: unexpected id type %T", res.InsertedID)
	}
	w.ID = oid
	return nil
}

func (s *MongoWatches) FindByID(ctx context.Context, id string) (_ *models.Watch, err error) {
	defer observe("watches", "find_by_id", time.Now(), &err)

	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var w models.Watch
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"_id": oid}), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *MongoWatches) Find(ctx context.Context, f WatchFilter) (_ []models.Watch, err error) {
	defer observe("watches", "find", time.Now(), &err)

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("watches: find: %w", err)
	}
	out := []models.Watch{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("watches: decode: %w", err)
	}
	return out, nil
}

func (s *MongoWatches) Update(ctx context.Context, id string, u models.WatchUpdate) (_ *models.Watch, err error) {
	defer observe("watches", "update", time.Now(), &err)

	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	set := u.Set()
	set["updatedAt"] = s.now().UTC()

	var w models.Watch
	res := s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after())
	if err := decodeOne(res, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *MongoWatches) Delete(ctx context.Context, id string) (_ *models.Watch, err error) {
	defer observe("watches", "delete", time.Now(), &err)

	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var w models.Watch
	if err := decodeOne(s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ─── Carts ────────────────────────────────────────────────────────────────────

type MongoCarts struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoCarts(db *mongo.Database) *MongoCarts {
	return &MongoCarts{col: db.Collection("carts"), now: time.Now}
}

func (s *MongoCarts) Get(ctx context.Context, userID string) (_ *models.Cart, err error) {
	defer observe("carts", "get", time.Now(), &err)

	uid, ok := parseID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	var c models.Cart
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"user": uid}), &c); err != nil {
		return nil, err
	}
	return normalize(&c), nil
}

func (s *MongoCarts) AddItem(ctx context.Context, userID, watchID string, qty int) (_ *models.Cart, err error) {
	defer observe("carts", "add_item", time.Now(), &err)

	uid, ok1 := parseID(userID)
	wid, ok2 := parseID(watchID)
	if !ok1 || !ok2 {
		return nil, ErrNotFound
	}
	now := s.now().UTC()

	// Existing line: bump its quantity.
	var c models.Cart
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"user": uid, "items.watch": wid},
		bson.M{"$inc": bson.M{"items.$.quantity": qty}, "$set": bson.M{"updatedAt": now}},
		after(),
	)
	err = decodeOne(res, &c)
	if err == nil {
		return normalize(&c), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("carts: inc: %w", err)
	}

	// No such line: append it, creating the cart if the user has none.
	res = s.col.FindOneAndUpdate(ctx,
		bson.M{"user": uid, "items.watch": bson.M{"$ne": wid}},
		bson.M{
			"$push":        bson.M{"items": models.CartItem{Watch: wid, Quantity: qty}},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		after().SetUpsert(true),
	)
	if err := decodeOne(res, &c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("carts: push: %w", err)
	}
	return normalize(&c), nil
}

func (s *MongoCarts) SetQuantity(ctx context.Context, userID, watchID string, qty int) (_ *models.Cart, err error) {
	defer observe("carts", "set_quantity", time.Now(), &err)

	uid, ok1 := parseID(userID)
	wid, ok2 := parseID(watchID)
	if !ok1 || !ok2 {
		return nil, ErrNotFound
	}
	var c models.Cart
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"user": uid, "items.watch": wid},
		bson.M{"$set": bson.M{"items.$.quantity": qty, "updatedAt": s.now().UTC()}},
		after(),
	)
	if err := decodeOne(res, &c); err != nil {
		return nil, err
	}
	return normalize(&c), nil
}

func (s *MongoCarts) RemoveItem(ctx context.Context, userID, watchID string) (_ *models.Cart, err error) {
	defer observe("carts", "remove_item", time.Now(), &err)

	uid, ok1 := parseID(userID)
	wid, ok2 := parseID(watchID)
	if !ok1 || !ok2 {
		return nil, ErrNotFound
	}
	var c models.Cart
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"user": uid, "items.watch": wid},
		bson.M{
			"$pull": bson.M{"items": bson.M{"watch": wid}},
			"$set":  bson.M{"updatedAt": s.now().UTC()},
		},
		after(),
	)
	if err := decodeOne(res, &c); err != nil {
		return nil, err
	}
	return normalize(&c), nil
}

func (s *MongoCarts) Clear(ctx context.Context, userID string) (_ *models.Cart, err error) {
	defer observe("carts", "clear", time.Now(), &err)

	uid, ok := parseID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	var c models.Cart
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"user": uid},
		bson.M{"$set": bson.M{"items": bson.A{}, "updatedAt": s.now().UTC()}},
		after(),
	)
	if err := decodeOne(res, &c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.EmptyCart(uid), nil
		}
		return nil, err
	}
	return normalize(&c), nil
}

func normalize(c *models.Cart) *models.Cart {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c
}

// ─── Users ────────────────────────────────────────────────────────────────────

type MongoUsers struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection("users"), now: time.Now}
}

func (s *MongoUsers) Create(ctx context.Context, u *models.User) (err error) {
	defer observe("users", "create", time.Now(), &err)

	u.ID = primitive.NilObjectID
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = s.now().UTC()

	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("users: unexpected id type %T", res.InsertedID)
	}
	u.ID = oid
	return nil
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (_ *models.User, err error) {
	defer observe("users", "find_by_email", time.Now(), &err)

	var u models.User
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) FindByID(ctx context.Context, id string) (_ *models.User, err error) {
	defer observe("users", "find_by_id", time.Now(), &err)

	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var u models.User
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"_id": oid}), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) SetRole(ctx context.Context, email, role string) (_ *models.User, err error) {
	defer observe("users", "set_role", time.Now(), &err)

	var u models.User
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$set": bson.M{"role": role}},
		after(),
	)
	if err := decodeOne(res, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
