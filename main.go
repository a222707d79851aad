package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lehoangphuc/vietshop-BE/api"
	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/ghn"
	"github.com/lehoangphuc/vietshop-BE/internal/location"
	"github.com/lehoangphuc/vietshop-BE/internal/shipment"
	"github.com/lehoangphuc/vietshop-BE/internal/shipping"
	"github.com/lehoangphuc/vietshop-BE/internal/util"
	"github.com/lehoangphuc/vietshop-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rs/zerolog/log"
)

// defaultGHNServiceTypes seeds the GHN service catalog used for fee fan-out.
var defaultGHNServiceTypes = []db.ProviderServiceType{
	{Code: "standard", Name: "Chuẩn", ServiceID: 53320, ServiceTypeID: 2, EstimatedDays: 3},
	{Code: "saving", Name: "Tiết Kiệm", ServiceID: 53322, ServiceTypeID: 5, EstimatedDays: 5},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	// Create connection pool
	connPool, err := pgxpool.New(context.Background(), config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}

	pingErr := connPool.Ping(context.Background())
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")

	store := db.NewStore(connPool)

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	if err = redisDb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis 😣")
	}
	log.Info().Msg("connected to redis ✅")

	// Seed/refresh the GHN provider profile from config.
	_, err = store.UpsertShippingProvider(context.Background(), db.UpsertShippingProviderParams{
		Code:             ghn.CarrierCode,
		Name:             "Giao Hàng Nhanh",
		BaseURL:          config.GHNBaseURL,
		APIToken:         config.GHNAPIToken,
		ShopID:           config.GHNShopID,
		OriginDistrictID: config.ShopDistrictID,
		ServiceTypes:     defaultGHNServiceTypes,
		IsActive:         true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed GHN shipping provider 😣")
	}
	log.Info().Msg("GHN shipping provider seeded successfully ✅")

	// GHN client reads its credential from the provider row on every call,
	// so rotating the token in the database needs no restart.
	ghnClient := ghn.NewClient(ghnCredentialSource(store), districtChecker{store: store})

	registry := carrier.NewRegistry()
	registry.Register(ghn.CarrierCode, func(profile db.ShippingProvider) carrier.Provider {
		return ghn.NewAdapter(profile, ghnClient)
	})

	syncer := location.NewSyncer(store, ghnClient, ghn.CarrierCode)

	scheduler, err := location.NewScheduler(syncer, config.LocationSyncInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create location sync scheduler 😣")
	}
	if err = scheduler.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start location sync scheduler 😣")
	}
	defer scheduler.Stop()
	log.Info().Msg("location sync scheduler started successfully ✅")

	redisOpt := asynq.RedisClientOpt{Addr: config.RedisServerAddress}
	taskDistributor := worker.NewTaskDistributor(redisOpt)

	go runTaskProcessor(redisOpt, syncer)

	shippingService := shipping.NewService(store, registry)
	shipmentManager := shipment.NewManager(store, registry)

	runHTTPServer(&config, store, shippingService, shipmentManager, taskDistributor)
}

func runTaskProcessor(redisOpt asynq.RedisClientOpt, syncer *location.Syncer) {
	processor := worker.NewRedisTaskProcessor(redisOpt, syncer)

	if err := processor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
	log.Info().Msg("task processor started successfully ✅")
}

func runHTTPServer(
	config *util.Config,
	store db.Store,
	shippingService *shipping.Service,
	shipmentManager *shipment.Manager,
	taskDistributor worker.TaskDistributor,
) {
	server := api.NewServer(store, config, shippingService, shipmentManager, taskDistributor)

	if err := server.Start(config.HTTPServerAddress); err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}

// ghnCredentialSource đọc credential GHN từ profile đang hoạt động tại thời
// điểm gọi.
func ghnCredentialSource(store db.Store) ghn.CredentialSource {
	return func(ctx context.Context) (ghn.Credential, error) {
		provider, err := store.GetShippingProviderByCode(ctx, ghn.CarrierCode)
		if err != nil {
			return ghn.Credential{}, fmt.Errorf("failed to load GHN provider profile: %w", err)
		}
		if !provider.IsActive {
			return ghn.Credential{}, fmt.Errorf("GHN provider is not active")
		}

		return ghn.Credential{
			BaseURL: provider.BaseURL,
			Token:   provider.APIToken,
			ShopID:  provider.ShopID,
		}, nil
	}
}

type districtChecker struct {
	store db.Store
}

func (c districtChecker) DistrictExists(ctx context.Context, providerCode string, districtID int64) (bool, error) {
	return c.store.DistrictExists(ctx, db.DistrictExistsParams{
		ProviderCode: providerCode,
		DistrictID:   districtID,
	})
}
