package sessions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	entry := `{"id":"1","name":"Admin User","email":"admin@example.com","role":"admin"}`

	mt.Run("load missing key", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := NewMongoRepository(mt.Coll).Load(ctx, DefaultKey)
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("load existing key", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: DefaultKey},
			{Key: "value", Value: entry},
		}))

		got, err := NewMongoRepository(mt.Coll).Load(ctx, DefaultKey)
		require.NoError(mt, err)
		assert.Equal(mt, entry, string(got))

		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev)
		assert.Equal(mt, "find", ev.CommandName)
		assert.Equal(mt, DefaultKey, ev.Command.Lookup("filter", "_id").StringValue())
	})

	mt.Run("load error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}))

		_, err := NewMongoRepository(mt.Coll).Load(ctx, DefaultKey)
		require.Error(mt, err)
	})

	mt.Run("save upserts by key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, NewMongoRepository(mt.Coll).Save(ctx, DefaultKey, []byte(entry)))

		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev)
		assert.Equal(mt, "update", ev.CommandName)
		assert.Equal(mt, DefaultKey, ev.Command.Lookup("updates", "0", "q", "_id").StringValue())
		assert.True(mt, ev.Command.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, entry, ev.Command.Lookup("updates", "0", "u", "value").StringValue())
	})

	mt.Run("delete by key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, NewMongoRepository(mt.Coll).Delete(ctx, DefaultKey))

		ev := mt.GetStartedEvent()
		require.NotNil(mt, ev)
		assert.Equal(mt, "delete", ev.CommandName)
		assert.Equal(mt, DefaultKey, ev.Command.Lookup("deletes", "0", "q", "_id").StringValue())
	})
}
