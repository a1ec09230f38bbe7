package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"flightquery-service/internal/domain/entity"
)

func TestUpsertUpdate_noID(t *testing.T) {
	now := time.Now()
	uc := &entity.UserContext{
		UserID:    "alice",
		Payload:   map[string]any{"budget": 500},
		CreatedAt: now,
		UpdatedAt: now,
	}

	update := upsertUpdate(uc)

	set := update["$set"].(bson.M)
	assert.Equal(t, "alice", set["userId"])
	assert.Equal(t, uc.Payload, set["payload"])
	assert.Equal(t, now, set["updatedAt"])
	assert.NotContains(t, set, "_id")

	onInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, now, onInsert["createdAt"])
	assert.NotContains(t, onInsert, "_id")
}

func TestApplyUpsertResult_insertAssignsID(t *testing.T) {
	uc := &entity.UserContext{UserID: "alice"}
	oid := primitive.NewObjectID()

	applyUpsertResult(uc, &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: oid})

	assert.Equal(t, oid.Hex(), uc.ID)
}

func TestApplyUpsertResult_updateKeepsID(t *testing.T) {
	uc := &entity.UserContext{ID: "existing", UserID: "alice"}

	applyUpsertResult(uc, &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1})

	assert.Equal(t, "existing", uc.ID)
}
