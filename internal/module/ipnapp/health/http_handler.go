package health

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	goredis "github.com/redis/go-redis/v9"
	publicMiddleware "github.com/rocketr/rocketr-ipn/pkg/middleware"
	"github.com/rocketr/rocketr-ipn/pkg/response"
	"github.com/rocketr/rocketr-ipn/pkg/status"
)

type HTTPHandler struct {
	DB    *sql.DB
	Redis *goredis.Client
}

func InitHTTPHandler(router *mux.Router, db *sql.DB, rc *goredis.Client) {
	handler := &HTTPHandler{
		DB:    db,
		Redis: rc,
	}

	router.HandleFunc("/rocketr-ipn/v1/health", publicMiddleware.SetRouteChain(handler.Check)).Methods(http.MethodGet)
}

func (handler HTTPHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"postgresql": "ok",
		"redis":      "ok",
	}
	healthy := true

	if err := handler.DB.PingContext(ctx); err != nil {
		checks["postgresql"] = err.Error()
		healthy = false
	}

	if err := handler.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		response.JSON(w, http.StatusServiceUnavailable, response.RESTEnvelope{
			Status:  status.INTERNAL_SERVER_ERROR,
			Message: "service is unhealthy",
			Data:    checks,
		})

		return
	}

	response.JSON(w, http.StatusOK, response.RESTEnvelope{
		Status:  status.OK,
		Message: "service is healthy",
		Data:    checks,
	})
}
