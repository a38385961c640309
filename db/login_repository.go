package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// LoginRepository stores registered travellers of one tenant.
type LoginRepository struct {
	collection odm.OdmCollectionInterface[LoginModel]
}

func ProvideLoginRepository(mongo odm.MongoClient, tenant string) *LoginRepository {
	return &LoginRepository{collection: odm.CollectionOf[LoginModel](mongo, tenant)}
}

// FindByEmail returns nil without error when nobody registered with the email.
func (r *LoginRepository) FindByEmail(ctx context.Context, email string) (*LoginModel, error) {
	id := LoginModel{EmailId: email}.Id()
	found, err := async.Await(r.collection.Find(ctx, bson.M{"_id": id}, nil, 1, 0))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *LoginRepository) Exists(ctx context.Context, email string) (bool, error) {
	return async.Await(r.collection.Exists(ctx, LoginModel{EmailId: email}.Id()))
}

func (r *LoginRepository) Create(ctx context.Context, login LoginModel) error {
	_, err := async.Await(r.collection.Save(ctx, login))
	return err
}
