package middleware

import (
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"
)

type AppUser struct {
	Subject string
	Role    string
}

type App struct {
	// Sample is the example table served by GET /api/sample.
	Sample loader.TableFile
	// Key verifies bearer tokens. Nil when only the master key is accepted.
	Key          keyfunc.Keyfunc
	MasterAPIKey string
	// AuthEnabled guards /api with AuthMiddleware.
	AuthEnabled bool
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
