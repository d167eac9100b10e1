package integration

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/udisondev/clanserver/internal/clanstore"
)

// IntegrationSuite is the base suite for tests exercising
// clanstore.MongoStore against a real mongod, following the teacher's
// IntegrationSuite shape (tests/integration/suite_test.go): one shared
// container started in TestMain, one fresh logical database per
// embedding suite so runs never see each other's documents.
type IntegrationSuite struct {
	suite.Suite
	ctx    context.Context
	client *mongo.Client
	db     *mongo.Database
	store  *clanstore.MongoStore
}

func (s *IntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	client, err := mongo.Connect(options.Client().ApplyURI(sharedMongoURI))
	s.Require().NoError(err, "connecting to mongo")
	s.Require().NoError(client.Ping(s.ctx, nil), "pinging mongo")
	s.client = client

	s.db = client.Database(fmt.Sprintf("clanserver_test_%s", s.T().Name()))
	s.store = clanstore.NewMongoStore(s.db)
	s.Require().NoError(s.store.EnsureIndexes(s.ctx), "creating indexes")
}

func (s *IntegrationSuite) SetupTest() {
	s.Require().NoError(s.db.Collection("clans").Drop(s.ctx))
	s.Require().NoError(s.db.Collection("players").Drop(s.ctx))
	s.Require().NoError(s.store.EnsureIndexes(s.ctx), "recreating indexes after drop")
}

func (s *IntegrationSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Drop(s.ctx)
	}
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
}
