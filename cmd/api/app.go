package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"crafts-store/internal/admin"
	"crafts-store/internal/cart"
	"crafts-store/internal/catalog"
	"crafts-store/internal/checkout"
	"crafts-store/internal/config"
	"crafts-store/internal/database"
	"crafts-store/internal/logging"
	"crafts-store/internal/repository"
)

// app reúne las dependencias compartidas por los comandos.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	client      *mongo.Client
	db          *mongo.Database
	store       repository.Store
	cartStorage cart.Storage
	catalog     *catalog.Service
	admin       *admin.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}
	logger.Info("configuration loaded", zap.String("source", cfg.EnvSource))

	a := &app{cfg: cfg, logger: logger}

	if cfg.MongoURI != "" {
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.client = client
		a.db = client.Database(cfg.MongoDB)
		a.store = repository.NewMongoStore(a.db)
		logger.Info("using MongoDB store", zap.String("database", cfg.MongoDB))
	} else {
		a.store = repository.NewMemoryStore()
		logger.Warn("MONGO_URI not set, using in-memory store")
	}

	if a.cartStorage, err = a.newCartStorage(); err != nil {
		a.close()
		return nil, err
	}

	a.catalog = catalog.NewService(a.store, cfg.SearchThrottle, logger.Named("catalog"))
	a.admin = admin.NewService(a.store, logger.Named("admin"), a.catalog.Invalidate)
	return a, nil
}

func (a *app) newCartStorage() (cart.Storage, error) {
	switch a.cfg.CartStore {
	case config.CartStoreMongo:
		if a.db == nil {
			return nil, fmt.Errorf("CART_STORE=mongo requires MONGO_URI")
		}
		return cart.NewMongoStorage(a.db.Collection(cart.SessionsCollection)), nil
	case config.CartStoreFile:
		return cart.NewFileStorage(a.cfg.CartDir)
	case config.CartStoreMemory:
		return cart.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown CART_STORE %q", a.cfg.CartStore)
	}
}

func (a *app) shippingRules() checkout.ShippingRules {
	return checkout.ShippingRules{
		FreeThreshold: decimal.NewFromFloat(a.cfg.FreeShippingThreshold),
		FlatFee:       decimal.NewFromFloat(a.cfg.ShippingFee),
	}
}

func (a *app) close() {
	if a.client != nil {
		if err := database.Disconnect(a.client); err != nil {
			a.logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
