// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backing services the app talks to: the dashboard's
// own MongoDB (sign-in sessions, audit events) and the commerce
// backend API client.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Backend       *backend.Client
}
