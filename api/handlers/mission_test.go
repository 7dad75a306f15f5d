package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wogarma/missions-api/api/handlers"
	"github.com/wogarma/missions-api/databases"
	mocksdb "github.com/wogarma/missions-api/databases/mocks"
	"github.com/wogarma/missions-api/models"
)

func TestMission_MissionByIDHandlerInvalidID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "1234"})

	db := &mocksdb.DatabaseHelper{}

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	assert.Equal(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestMission_MissionByIDHandlerNotFound(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	assert.Equal(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestMission_MissionByIDHandlerStoreError(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(mongo.ErrClientDisconnected)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}
	assert.Equal(t, `{"error":"Server error"}`, rr.Body.String())
}

func TestMission_MissionByIDHandlerSuccess(t *testing.T) {
	mID, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	req, err := http.NewRequest("GET", "/api/missions/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Mission)
		(*arg).ID = mID
		(*arg).Name = "Operation Highland"
		(*arg).Project = "wog"
		(*arg).Game = "arma3"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var resp models.MissionResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "5fc51f58c72ff10004dca382", resp.Mission.ID.Hex())
	assert.Equal(t, "Operation Highland", resp.Mission.Name)
}

func TestMission_MissionHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Mission)
		*arg = []models.Mission{
			{Name: "Operation Highland", Project: "wog", Game: "arma3", DateOf: 2000},
			{Name: "Operation Lowland", Project: "wog", Game: "arma2", DateOf: 1000},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var missions []models.Mission
	_ = json.Unmarshal(rr.Body.Bytes(), &missions)

	assert.Len(t, missions, 2)
	assert.Equal(t, "Operation Highland", missions[0].Name)
}

func TestMission_MissionHandlerEmptyResponse(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Mission)
		*arg = nil
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := "[]"
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestMission_MissionHandlerSortsNewestFirst(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Mission)
		*arg = nil
	})
	// the store must receive the date_of descending sort
	conn.On("Find", mock.Anything, mock.Anything, mock.MatchedBy(func(opts interface{}) bool {
		o, ok := opts.(*options.FindOptions)
		if !ok || o.Sort == nil {
			return false
		}
		sort, ok := o.Sort.(bson.D)
		return ok && len(sort) == 1 && sort[0].Key == "date_of" && sort[0].Value == -1
	})).Return(cursorHelper, nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	conn.AssertExpectations(t)
}

func TestMission_MissionHandlerFilterAllowList(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/missions?project=wog&bogus=1&$where=1", nil)
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursorHelper := &mocksdb.CursorHelper{}

	cursorHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Mission)
		*arg = nil
	})
	// only allow-listed fields may reach the store
	conn.On("Find", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		f, ok := filter.(bson.M)
		return ok && len(f) == 1 && f["project"] == "wog"
	}), mock.Anything).Return(cursorHelper, nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.MissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	conn.AssertExpectations(t)
}

func TestMission_CreateMissionHandlerSuccess(t *testing.T) {
	body := `{"mission_name":"Operation Highland","mission_description":"night assault","project":"wog","game":"arma3","author":"kami"}`
	req, err := http.NewRequest("POST", "/api/missions", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	insertOneResultHelper := &mocksdb.InsertOneResultHelper{}

	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertOneResultHelper, nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.CreateMissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var resp models.MissionResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, "OK", resp.Status)
	assert.NotEqual(t, primitive.NilObjectID, resp.Mission.ID)
	assert.Equal(t, "Operation Highland", resp.Mission.Name)
	assert.Equal(t, "night assault", resp.Mission.Description)
	assert.Equal(t, "wog", resp.Mission.Project)
	assert.Equal(t, "arma3", resp.Mission.Game)
	assert.Equal(t, "kami", resp.Mission.Author)
	assert.NotZero(t, resp.Mission.DateOf)
}

func TestMission_CreateMissionHandlerValidationError(t *testing.T) {
	body := `{"mission_name":"Operation Highland","project":"megawog","game":"arma3"}`
	req, err := http.NewRequest("POST", "/api/missions", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.CreateMissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
	assert.Equal(t, `{"error":"Validation error"}`, rr.Body.String())
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestMission_CreateMissionHandlerMissingRequiredFields(t *testing.T) {
	body := `{"mission_description":"no name, no project, no game"}`
	req, err := http.NewRequest("POST", "/api/missions", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.CreateMissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error":"Validation error"}`, rr.Body.String())
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestMission_UpdateMissionHandlerNotFound(t *testing.T) {
	body := `{"mission_name":"Operation Highland","project":"wog","game":"arma3"}`
	req, err := http.NewRequest("PUT", "/api/missions/5fc51f58c72ff10004dca382", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.UpdateMissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error":"Not found"}`, rr.Body.String())
	conn.AssertNotCalled(t, "ReplaceOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestMission_UpdateMissionHandlerFullReplace(t *testing.T) {
	mID, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	// the stored record has a description and author, the update omits both
	body := `{"mission_name":"Operation Highland II","project":"miniwog","game":"arma2"}`
	req, err := http.NewRequest("PUT", "/api/missions/5fc51f58c72ff10004dca382", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Mission)
		(*arg).ID = mID
		(*arg).Name = "Operation Highland"
		(*arg).Description = "night assault"
		(*arg).Project = "wog"
		(*arg).Game = "arma3"
		(*arg).Author = "kami"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("ReplaceOne", mock.Anything, mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		mission, ok := doc.(models.Mission)
		return ok &&
			mission.ID == mID &&
			mission.Name == "Operation Highland II" &&
			mission.Project == "miniwog" &&
			mission.Game == "arma2" &&
			mission.Description == "" &&
			mission.Author == ""
	})).Return(nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.UpdateMissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var resp models.MissionResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "Operation Highland II", resp.Mission.Name)
	assert.Empty(t, resp.Mission.Description)
	conn.AssertExpectations(t)
}

func TestMission_UpdateMissionHandlerValidationError(t *testing.T) {
	mID, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	body := `{"mission_name":"","project":"wog","game":"arma3"}`
	req, err := http.NewRequest("PUT", "/api/missions/5fc51f58c72ff10004dca382", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Mission)
		(*arg).ID = mID
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.UpdateMissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error":"Validation error"}`, rr.Body.String())
	conn.AssertNotCalled(t, "ReplaceOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestMission_DeleteMissionHandlerSuccess(t *testing.T) {
	mID, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	req, err := http.NewRequest("DELETE", "/api/missions/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Mission)
		(*arg).ID = mID
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.DeleteMissionHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var resp models.StatusResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "OK", resp.Status)
}

func TestMission_DeleteMissionHandlerNotFound(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/missions/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"mission_id": "5fc51f58c72ff10004dca382"})

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResultHelper := &mocksdb.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "missions").Return(conn)

	u := handlers.Mission{
		DB: databases.NewMissionDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.DeleteMissionHandler)

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error":"Not found"}`, rr.Body.String())
	conn.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}
