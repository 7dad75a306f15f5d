package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wogarma/missions-api/config"
	"github.com/wogarma/missions-api/databases"
	"github.com/wogarma/missions-api/models"
)

// Mission exported for testing purposes
type Mission struct {
	DB databases.MissionDatabase
}

// filterableFields is the allow-list of query parameters forwarded to the
// store as an equality filter
var filterableFields = []string{"project", "game", "author"}

// MissionHandler returns all missions, newest first
func (m Mission) MissionHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	for _, field := range filterableFields {
		if v := r.URL.Query().Get(field); v != "" {
			filter[field] = v
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date_of", Value: -1}})
	dbResp, err := m.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Mission{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMissionHandler validates and stores a new mission
func (m Mission) CreateMissionHandler(w http.ResponseWriter, r *http.Request) {
	var mission models.Mission
	if err := json.NewDecoder(r.Body).Decode(&mission); err != nil {
		config.ErrorStatus("Validation error", http.StatusBadRequest, w, err)
		return
	}

	mission.ID = primitive.NewObjectID()
	if mission.DateOf == 0 {
		mission.DateOf = primitive.NewDateTimeFromTime(time.Now())
	}
	if err := mission.Validate(); err != nil {
		config.ErrorStatus("Validation error", http.StatusBadRequest, w, err)
		return
	}

	if _, err := m.DB.InsertOne(r.Context(), mission); err != nil {
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mission created", "id", mission.ID.Hex())
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.MissionResponse{Status: "OK", Mission: mission})
}

// MissionByIDHandler returns a mission by ID
func (m Mission) MissionByIDHandler(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["mission_id"]

	mID, err := primitive.ObjectIDFromHex(missionID)
	if err != nil {
		// a malformed id can never name a record
		config.ErrorStatus("Not found", http.StatusNotFound, w, err)
		return
	}

	mission, err := m.DB.FindOne(r.Context(), bson.M{"_id": mID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("Not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.MissionResponse{Status: "OK", Mission: *mission})
}

// UpdateMissionHandler replaces every mutable field of an existing
// mission with the incoming values. Omitted optional fields are cleared,
// there is no partial merge.
func (m Mission) UpdateMissionHandler(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["mission_id"]

	mID, err := primitive.ObjectIDFromHex(missionID)
	if err != nil {
		config.ErrorStatus("Not found", http.StatusNotFound, w, err)
		return
	}

	existing, err := m.DB.FindOne(r.Context(), bson.M{"_id": mID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("Not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	var mission models.Mission
	if err := json.NewDecoder(r.Body).Decode(&mission); err != nil {
		config.ErrorStatus("Validation error", http.StatusBadRequest, w, err)
		return
	}

	mission.ID = existing.ID
	if err := mission.Validate(); err != nil {
		config.ErrorStatus("Validation error", http.StatusBadRequest, w, err)
		return
	}

	if err := m.DB.ReplaceOne(r.Context(), bson.M{"_id": mID}, mission); err != nil {
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mission updated", "id", mission.ID.Hex())
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.MissionResponse{Status: "OK", Mission: mission})
}

// DeleteMissionHandler removes a mission by ID
func (m Mission) DeleteMissionHandler(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["mission_id"]

	mID, err := primitive.ObjectIDFromHex(missionID)
	if err != nil {
		config.ErrorStatus("Not found", http.StatusNotFound, w, err)
		return
	}

	if _, err := m.DB.FindOne(r.Context(), bson.M{"_id": mID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("Not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := m.DB.DeleteOne(r.Context(), bson.M{"_id": mID}); err != nil {
		config.ErrorStatus("Server error", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("mission removed", "id", missionID)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.StatusResponse{Status: "OK"})
}
