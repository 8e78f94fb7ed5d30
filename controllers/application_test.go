package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kmroja/QuickBite-backend/models"
	"github.com/kmroja/QuickBite-backend/utils"
)

func applicationController(mt *mtest.T) *ApplicationController {
	return NewApplicationController(mt.Client, utils.NewUploader(), &utils.EmailService{})
}

func applicationDoc(id primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "restaurant_name", Value: "Spice Garden"},
		{Key: "owner_name", Value: "Ravi Kumar"},
		{Key: "email", Value: "ravi@example.com"},
		{Key: "phone", Value: "9876543210"},
		{Key: "address", Value: "12 MG Road"},
		{Key: "cuisine", Value: "South Indian"},
		{Key: "password", Value: "$2a$10$hashedhashedhashedhashed"},
		{Key: "status", Value: status},
	}
}

func TestApproveApplication(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending application creates restaurant and owner", func(mt *mtest.T) {
		ac := applicationController(mt)
		applicationID := primitive.NewObjectID()

		mt.AddMockResponses(
			// the application itself
			mtest.CreateCursorResponse(0, "quickbite.applications", mtest.FirstBatch,
				applicationDoc(applicationID, models.ApplicationPending)),
			// no restaurant with that name yet
			mtest.CreateCursorResponse(0, "quickbite.restaurants", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			// no user with the applicant's email yet
			mtest.CreateCursorResponse(0, "quickbite.users", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			// link the owner, then mark the application approved
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		req := httptest.NewRequest(http.MethodPut, "/api/restaurant-applications/x/approve", nil)
		req = muxVars(req, map[string]string{"id": applicationID.Hex()})
		rr := httptest.NewRecorder()
		ac.ApproveApplication(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)

		var resp struct {
			Success        bool                          `json:"success"`
			Application    models.RestaurantApplication `json:"application"`
			Restaurant     models.Restaurant             `json:"restaurant"`
			RestaurantUser struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"restaurantUser"`
		}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))

		assert.True(mt, resp.Success)
		assert.Equal(mt, models.ApplicationApproved, resp.Application.Status)
		assert.Equal(mt, "Spice Garden", resp.Restaurant.Name)
		assert.Equal(mt, models.ApplicationApproved, resp.Restaurant.Status)
		assert.Equal(mt, "ravi@example.com", resp.RestaurantUser.Email)
		assert.Equal(mt, models.RoleRestaurant, resp.RestaurantUser.Role)
	})

	mt.Run("second approval is rejected", func(mt *mtest.T) {
		ac := applicationController(mt)
		applicationID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "quickbite.applications", mtest.FirstBatch,
				applicationDoc(applicationID, models.ApplicationApproved)),
		)

		req := httptest.NewRequest(http.MethodPut, "/api/restaurant-applications/x/approve", nil)
		req = muxVars(req, map[string]string{"id": applicationID.Hex()})
		rr := httptest.NewRecorder()
		ac.ApproveApplication(rr, req)

		assert.Equal(mt, http.StatusBadRequest, rr.Code)
		assert.Contains(mt, rr.Body.String(), "Already approved")
	})

	mt.Run("restaurant lookup failure creates nothing", func(mt *mtest.T) {
		ac := applicationController(mt)
		applicationID := primitive.NewObjectID()

		// A failed lookup must not fall through to creation, or the
		// approval could mint a duplicate restaurant.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "quickbite.applications", mtest.FirstBatch,
				applicationDoc(applicationID, models.ApplicationPending)),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11601,
				Message: "operation was interrupted",
				Name:    "Interrupted",
			}),
		)

		req := httptest.NewRequest(http.MethodPut, "/api/restaurant-applications/x/approve", nil)
		req = muxVars(req, map[string]string{"id": applicationID.Hex()})
		rr := httptest.NewRecorder()
		ac.ApproveApplication(rr, req)

		assert.Equal(mt, http.StatusInternalServerError, rr.Code)
	})

	mt.Run("unknown application", func(mt *mtest.T) {
		ac := applicationController(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quickbite.applications", mtest.FirstBatch))

		req := httptest.NewRequest(http.MethodPut, "/api/restaurant-applications/x/approve", nil)
		req = muxVars(req, map[string]string{"id": primitive.NewObjectID().Hex()})
		rr := httptest.NewRecorder()
		ac.ApproveApplication(rr, req)

		assert.Equal(mt, http.StatusNotFound, rr.Code)
	})
}

func TestRejectApplication(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending application is rejected", func(mt *mtest.T) {
		ac := applicationController(mt)
		applicationID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "quickbite.applications", mtest.FirstBatch,
				applicationDoc(applicationID, models.ApplicationPending)),
			mtest.CreateSuccessResponse(),
		)

		req := httptest.NewRequest(http.MethodPut, "/api/restaurant-applications/x/reject", nil)
		req = muxVars(req, map[string]string{"id": applicationID.Hex()})
		rr := httptest.NewRecorder()
		ac.RejectApplication(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)

		var resp struct {
			Application models.RestaurantApplication `json:"application"`
		}
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(mt, models.ApplicationRejected, resp.Application.Status)
	})
}
