package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kmroja/QuickBite-backend/models"
)

func cartEntryDoc(id, userID, itemID primitive.ObjectID, quantity int) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user", Value: userID},
		{Key: "item", Value: itemID},
		{Key: "quantity", Value: quantity},
	}
}

func TestAddToCartCreatesNewEntry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new entry", func(mt *mtest.T) {
		cc := NewCartController(mt.Client)
		user := testUser(models.RoleUser)
		itemID := primitive.NewObjectID()

		// No existing (user, item) entry, then insert
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "quickbite.cartitems", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		body := fmt.Sprintf(`{"itemId":%q,"quantity":2}`, itemID.Hex())
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body)), user)
		rr := httptest.NewRecorder()
		cc.AddToCart(rr, req)

		require.Equal(mt, http.StatusCreated, rr.Code)

		var entry models.CartItem
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&entry))
		assert.Equal(mt, 2, entry.Quantity)
		assert.Equal(mt, itemID, entry.ItemID)
	})
}

func TestAddToCartIncrementsExistingEntry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("same item twice", func(mt *mtest.T) {
		cc := NewCartController(mt.Client)
		user := testUser(models.RoleUser)
		itemID := primitive.NewObjectID()
		entryID := primitive.NewObjectID()

		// Existing entry with quantity 1 is incremented, not duplicated
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "quickbite.cartitems", mtest.FirstBatch,
				cartEntryDoc(entryID, user.ID, itemID, 1)),
			mtest.CreateSuccessResponse(),
		)

		body := fmt.Sprintf(`{"itemId":%q,"quantity":2}`, itemID.Hex())
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body)), user)
		rr := httptest.NewRecorder()
		cc.AddToCart(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)

		var entry models.CartItem
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&entry))
		assert.Equal(mt, entryID, entry.ID)
		assert.Equal(mt, 3, entry.Quantity)
	})
}

func TestAddToCartRemovesEntryDroppingBelowOne(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decrement to zero", func(mt *mtest.T) {
		cc := NewCartController(mt.Client)
		user := testUser(models.RoleUser)
		itemID := primitive.NewObjectID()
		entryID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "quickbite.cartitems", mtest.FirstBatch,
				cartEntryDoc(entryID, user.ID, itemID, 1)),
			mtest.CreateSuccessResponse(),
		)

		body := fmt.Sprintf(`{"itemId":%q,"quantity":-1}`, itemID.Hex())
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body)), user)
		rr := httptest.NewRecorder()
		cc.AddToCart(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)

		var resp map[string]interface{}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))
		assert.EqualValues(mt, 0, resp["quantity"])
	})
}

func TestAddToCartSurfacesLookupFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lookup error does not insert", func(mt *mtest.T) {
		cc := NewCartController(mt.Client)
		user := testUser(models.RoleUser)
		itemID := primitive.NewObjectID()

		// A failed lookup is not a miss; inserting here would duplicate
		// the (user, item) entry.
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11601,
			Message: "operation was interrupted",
			Name:    "Interrupted",
		}))

		body := fmt.Sprintf(`{"itemId":%q,"quantity":1}`, itemID.Hex())
		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body)), user)
		rr := httptest.NewRecorder()
		cc.AddToCart(rr, req)

		assert.Equal(mt, http.StatusInternalServerError, rr.Code)
	})
}

func TestAddToCartValidatesInput(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing fields", func(mt *mtest.T) {
		cc := NewCartController(mt.Client)
		user := testUser(models.RoleUser)

		req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(`{}`)), user)
		rr := httptest.NewRecorder()
		cc.AddToCart(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
	})
}
