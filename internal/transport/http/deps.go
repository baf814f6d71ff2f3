package http

import (
	"github.com/go-push-api/internal/application/dispatcher"
	"github.com/go-push-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-push-api/internal/infrastructure/jwt"
	s3infra "github.com/go-push-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PushTokenRepo    *dynamo.PushTokenRepo
	NotificationRepo *dynamo.NotificationRepo
	TodoRepo         *dynamo.TodoRepo
	ExportStore      *s3infra.Store
	PushTransport    dispatcher.Transport
	JWTProvider      *jwtinfra.Provider
}
