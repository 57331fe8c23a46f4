package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/communication"
	"github.com/dayplan-app/dayplan-backend/pkg/environment"
	"github.com/dayplan-app/dayplan-backend/pkg/locking"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/dayplan-app/dayplan-backend/pkg/scheduling"
	"github.com/dayplan-app/dayplan-backend/pkg/scheduling/calendar"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	var logging logger.Interface = logger.Logger{}
	fmt.Println("Server is starting up...")

	environment.Initialize()

	if environment.Global.Environment != environment.Production {
		logging.Debug(fmt.Sprintf("running in %s mode", environment.Global.Environment))
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(environment.Global.DatabaseUrl))
	if err != nil {
		log.Fatal(err)
	}

	var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = client.Connect(ctx)
	if err != nil {
		log.Panic(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Panic(err)
	}

	defer func() {
		err := client.Disconnect(ctx)
		if err != nil {
			logging.Fatal(err)
		}
	}()

	fmt.Println("Database connected")

	db := client.Database(environment.Global.Database)
	workUnitCollection := db.Collection("WorkUnits")

	var locker locking.LockerInterface = locking.NewLockerMemory()
	var workloadCache scheduling.WorkloadCacheInterface

	if environment.Global.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     environment.Global.Redis,
			Password: environment.Global.RedisPassword,
		})

		err = redisClient.Ping(ctx).Err()
		if err != nil {
			log.Panic(err)
		}

		locker = locking.NewLockerRedis(redisClient)

		workloadCache, err = scheduling.NewWorkloadCacheRedis(redisClient)
		if err != nil {
			log.Panic(err)
		}

		fmt.Println("Redis connected")
	} else {
		workloadCache, err = scheduling.NewWorkloadCacheMemory()
		if err != nil {
			log.Panic(err)
		}
	}

	var calendarRepository calendar.RepositoryInterface
	if environment.Global.GoogleRefreshToken != "" {
		config := &oauth2.Config{
			ClientID:     environment.Global.GoogleClientID,
			ClientSecret: environment.Global.GoogleClientSecret,
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{RefreshToken: environment.Global.GoogleRefreshToken}

		calendarID := environment.Global.GoogleCalendarID
		if calendarID == "" {
			calendarID = "primary"
		}

		calendarRepository, err = calendar.NewGoogleCalendarRepository(context.Background(), config, token, calendarID, logging)
		if err != nil {
			log.Panic(err)
		}

		fmt.Println("Google calendar connected")
	}

	responseManager := communication.ResponseManager{Logger: logging}

	var workUnitRepository scheduling.WorkUnitRepositoryInterface = &scheduling.WorkUnitService{DB: workUnitCollection, Logger: logging}
	planningService := scheduling.NewPlanningService(workUnitRepository, calendarRepository, workloadCache, locker, logging)

	preferences := scheduling.DefaultPreferences()

	workUnitHandler := scheduling.Handler{
		PlanningService: planningService,
		Preferences:     preferences,
		Logger:          logging,
		ResponseManager: &responseManager,
	}
	planningHandler := scheduling.PlanningHandler{
		PlanningService: planningService,
		Preferences:     preferences,
		Logger:          logging,
		ResponseManager: &responseManager,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the API! ✔")
		if err != nil {
			log.Printf("Error: %v\n", err)
		}
	})

	scheduling.RegisterRoutes(r, &workUnitHandler, &planningHandler)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			next.ServeHTTP(w, r)
		})
	})

	port := environment.Global.Port
	if port == "" {
		port = "8080"
	}

	http.Handle("/", r)
	log.Panic(http.ListenAndServe(":"+port, r))
}
