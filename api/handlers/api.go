package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wogarma/missions-api/api"
	"github.com/wogarma/missions-api/cloudinary"
	"github.com/wogarma/missions-api/config"
	"github.com/wogarma/missions-api/databases"
	"github.com/wogarma/missions-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.MissionDatabase
	Config   config.Config
	Client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	m := Mission{DB: databases.NewMissionDatabase(a.dbHelper)}
	img := Image{Uploader: cloudinary.New(a.Config.CloudinaryURL, a.Config.CloudinaryKey, a.Config.CloudinarySecret)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.HandleFunc("/api", apiRootHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/missions", http.HandlerFunc(m.MissionHandler)).Methods("GET")
	apiCreate.Handle("/missions", http.HandlerFunc(m.CreateMissionHandler)).Methods("POST")
	apiCreate.Handle("/missions/{mission_id}", http.HandlerFunc(m.MissionByIDHandler)).Methods("GET")
	apiCreate.Handle("/missions/{mission_id}", http.HandlerFunc(m.UpdateMissionHandler)).Methods("PUT")
	apiCreate.Handle("/missions/{mission_id}", http.HandlerFunc(m.DeleteMissionHandler)).Methods("DELETE")

	apiCreate.Handle("/images", http.HandlerFunc(img.UploadImageHandler)).Methods("POST")

	// preflight requests match here so the CORS middleware can answer them
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	r.Use(api.CORSMiddleware)
	r.Use(api.LoggingMiddleware)
	r.Use(api.TimeoutMiddleware(15 * time.Second))

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	a.Client = client

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("missions-api has connected to the database")

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	a.DB = databases.NewMissionDatabase(a.dbHelper)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Shutdown releases the shared database connection
func (a *App) Shutdown(ctx context.Context) error {
	if a.Client == nil {
		return nil
	}
	return a.Client.Disconnect(ctx)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func apiRootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Api is running")
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debugf("not found URL: %s", r.URL)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	b, _ := json.Marshal(models.ErrorResponse{Error: "Not found"})
	w.Write(b)
}
