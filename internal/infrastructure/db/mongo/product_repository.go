package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

// Create inserts a new product document. The repository stamps created_at at
// insert time; it is the authoritative ordering key for the recent read
// model, so the caller's clock never leaks into it.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p.CreatedAt = time.Now().UTC()
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

// RecentImageURLs returns the image URLs of the n most recently created
// products, newest first. Products without an image are skipped.
func (r *ProductRepository) RecentImageURLs(ctx context.Context, n int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n)).
		SetProjection(bson.M{"image_url": 1})

	cur, err := r.col.Find(ctx, bson.M{"image_url": bson.M{"$ne": ""}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	urls := make([]string, 0, n)
	for cur.Next(ctx) {
		var doc struct {
			ImageURL string `bson:"image_url"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		urls = append(urls, doc.ImageURL)
	}
	return urls, cur.Err()
}

// EnsureIndexes creates the indexes backing the recent read model.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
