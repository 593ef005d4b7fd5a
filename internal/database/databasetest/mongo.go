//go:build integration
// +build integration

// Package databasetest arranca un MongoDB desechable para los tests de integración.
package databasetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"crafts-store/internal/database"
)

const mongoImage = "mongo:7"

// StartMongo levanta un contenedor de MongoDB y devuelve una base de datos
// vacía. El contenedor se detiene al terminar el test.
func StartMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Waiting for connections"),
				wait.ForListeningPort("27017/tcp"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	client, err := database.Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	t.Cleanup(func() { _ = database.Disconnect(client) })

	return client.Database("crafts_" + uuid.NewString()[:8])
}

// FreshDatabase devuelve otra base de datos vacía en el mismo servidor.
func FreshDatabase(db *mongo.Database) *mongo.Database {
	return db.Client().Database("crafts_" + uuid.NewString()[:8])
}
