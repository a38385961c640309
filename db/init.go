package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/travel-boot/memory"
)

func InitTravelDB(ctx context.Context, mongo odm.MongoClient, tenant string) error {
	err := odm.EnsureIndexes[LoginModel](ctx, mongo, tenant)
	if err != nil {
		return err
	}

	err = odm.EnsureIndexes[memory.Conversation](ctx, mongo, tenant)
	if err != nil {
		return err
	}

	return nil
}
