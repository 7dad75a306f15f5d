package databases

// go generate: mockery --name MissionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wogarma/missions-api/models"
)

const missionName = "missions"

// MissionDatabase contains the methods to use with the missions collection
type MissionDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Mission, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Mission, error)
	InsertOne(ctx context.Context, mission models.Mission, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	ReplaceOne(ctx context.Context, filter interface{}, mission models.Mission, opts ...*options.ReplaceOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
}

type missionDatabase struct {
	db DatabaseHelper
}

// NewMissionDatabase initializes a new instance of mission database with the provided db connection
func NewMissionDatabase(db DatabaseHelper) MissionDatabase {
	return &missionDatabase{
		db: db,
	}
}

func (c *missionDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Mission, error) {
	mission := &models.Mission{}
	err := c.db.Collection(missionName).FindOne(ctx, filter, opts...).Decode(&mission)
	if err != nil {
		return nil, err
	}
	return mission, nil
}

func (c *missionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mission, error) {
	var missions []models.Mission
	cr, err := c.db.Collection(missionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cr.Decode(&missions)
	if err != nil {
		return nil, err
	}
	return missions, nil
}

func (c *missionDatabase) InsertOne(ctx context.Context, mission models.Mission, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(missionName).InsertOne(ctx, mission, opts...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *missionDatabase) ReplaceOne(ctx context.Context, filter interface{}, mission models.Mission, opts ...*options.ReplaceOptions) error {
	return c.db.Collection(missionName).ReplaceOne(ctx, filter, mission, opts...)
}

func (c *missionDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return c.db.Collection(missionName).DeleteOne(ctx, filter, opts...)
}

func (c *missionDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(missionName).CountDocuments(ctx, filter, opts...)
}
