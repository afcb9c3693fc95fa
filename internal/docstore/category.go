package docstore

import (
	"context"
	"errors"
	"time"

	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type categoryDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"nombre"`
	Subcategories []string           `bson:"subcategorias"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d *categoryDoc) decode() *domain.Category {
	labels := d.Subcategories
	if labels == nil {
		labels = []string{}
	}
	return &domain.Category{ID: d.ID.Hex(), Name: d.Name, Subcategories: labels}
}

type categoryRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewCategoryRepository creates a CategoryRepository on the categorias collection
func NewCategoryRepository(s *Store, logger *zap.Logger) repository.CategoryRepository {
	return &categoryRepository{coll: s.db.Collection(categoriesCollection), logger: logger}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewRepositoryError("list categories", err)
	}
	defer cursor.Close(ctx)

	categories := []*domain.Category{}
	for cursor.Next(ctx) {
		var doc categoryDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping malformed category document", zap.Any("id", cursor.Current.Lookup("_id")), zap.Error(err))
			continue
		}
		categories = append(categories, doc.decode())
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := objectID(categoriesCollection, id)
	if err != nil {
		return nil, err
	}

	var doc categoryDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Collection: categoriesCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find category", err)
	}
	return doc.decode(), nil
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	labels := category.Subcategories
	if labels == nil {
		labels = []string{}
	}
	doc := categoryDoc{
		ID:            primitive.NewObjectID(),
		Name:          category.Name,
		Subcategories: labels,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.NewRepositoryError("create category", err)
	}
	category.ID = doc.ID.Hex()
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	oid, err := objectID(categoriesCollection, category.ID)
	if err != nil {
		return err
	}
	labels := category.Subcategories
	if labels == nil {
		labels = []string{}
	}

	update := bson.M{"$set": bson.M{"nombre": category.Name, "subcategorias": labels}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return domain.NewRepositoryError("update category", err)
	}
	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Collection: categoriesCollection, ID: category.ID}
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(categoriesCollection, id)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewRepositoryError("delete category", err)
	}
	if result.DeletedCount == 0 {
		return &domain.NotFoundError{Collection: categoriesCollection, ID: id}
	}
	return nil
}

type subcategoryDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"nombre"`
}

type subcategoryRepository struct {
	coll *mongo.Collection
}

// NewSubcategoryRepository reads the subcategorias lookup collection
func NewSubcategoryRepository(s *Store) repository.SubcategoryRepository {
	return &subcategoryRepository{coll: s.db.Collection(subcategoriesCollection)}
}

func (r *subcategoryRepository) List(ctx context.Context) ([]*domain.Subcategory, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
	if err != nil {
		return nil, domain.NewRepositoryError("list subcategories", err)
	}
	defer cursor.Close(ctx)

	var docs []subcategoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.NewRepositoryError("decode subcategories", err)
	}

	subcategories := make([]*domain.Subcategory, 0, len(docs))
	for _, d := range docs {
		subcategories = append(subcategories, &domain.Subcategory{ID: d.ID.Hex(), Name: d.Name})
	}
	return subcategories, nil
}
