package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockroom-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	accounts *mongo.Collection
	items    *mongo.Collection
}

// accountDoc is the persisted shape of an account.
type accountDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// itemDoc is the persisted shape of an inventory item.
type itemDoc struct {
	ID          string    `bson:"_id"`
	OwnerID     string    `bson:"owner_id"`
	Name        string    `bson:"name"`
	SKU         string    `bson:"sku"`
	Category    string    `bson:"category"`
	Quantity    int64     `bson:"quantity"`
	Price       float64   `bson:"price"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// NewMongoStore creates a new MongoDB-backed store.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		db:       db,
		accounts: db.Collection("accounts"),
		items:    db.Collection("items"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Printf("[MongoStore] Initialized with database: %s", database)
	return s, nil
}

// ensureIndexes creates the unique indexes backing email and per-owner SKU
// uniqueness.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}},
		},
	})
	return err
}

// CreateAccount persists a new account.
func (s *MongoStore) CreateAccount(ctx context.Context, account *model.Account) error {
	doc := accountDoc{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	}
	if _, err := s.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail finds an account by its (lowercased) email.
func (s *MongoStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.findAccount(ctx, bson.M{"email": email})
}

// GetAccountByID finds an account by its identifier.
func (s *MongoStore) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	return s.findAccount(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findAccount(ctx context.Context, filter bson.M) (*model.Account, error) {
	var doc accountDoc
	err := s.accounts.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &model.Account{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

// ListItems returns all items owned by ownerID in creation order.
func (s *MongoStore) ListItems(ctx context.Context, ownerID string) ([]model.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.items.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []model.Item{}
	for cursor.Next(ctx) {
		var doc itemDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		items = append(items, itemFromDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return items, nil
}

// GetItem returns the item only if it belongs to ownerID.
func (s *MongoStore) GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	var doc itemDoc
	err := s.items.FindOne(ctx, bson.M{"_id": itemID, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	item := itemFromDoc(doc)
	return &item, nil
}

// CreateItem persists a new item.
func (s *MongoStore) CreateItem(ctx context.Context, item *model.Item) error {
	if _, err := s.items.InsertOne(ctx, docFromItem(item)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// UpdateItem replaces the mutable fields of an item owned by item.OwnerID.
func (s *MongoStore) UpdateItem(ctx context.Context, item *model.Item) error {
	update := bson.M{"$set": bson.M{
		"name":        item.Name,
		"sku":         item.SKU,
		"category":    item.Category,
		"quantity":    item.Quantity,
		"price":       item.Price,
		"description": item.Description,
		"updated_at":  item.UpdatedAt,
	}}

	result, err := s.items.UpdateOne(ctx, bson.M{"_id": item.ID, "owner_id": item.OwnerID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes the item if it belongs to ownerID.
func (s *MongoStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	result, err := s.items.DeleteOne(ctx, bson.M{"_id": itemID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Stats returns counters about the store.
func (s *MongoStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	accounts, err := s.accounts.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	items, err := s.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats["accounts"] = accounts
	stats["items"] = items

	return stats, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func itemFromDoc(doc itemDoc) model.Item {
	return model.Item{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		Name:        doc.Name,
		SKU:         doc.SKU,
		Category:    doc.Category,
		Quantity:    doc.Quantity,
		Price:       doc.Price,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func docFromItem(item *model.Item) itemDoc {
	return itemDoc{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Name:        item.Name,
		SKU:         item.SKU,
		Category:    item.Category,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// Ensure MongoStore implements Store
var _ Store = (*MongoStore)(nil)
