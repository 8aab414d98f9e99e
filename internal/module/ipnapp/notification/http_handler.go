package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rocketr/rocketr-ipn/pkg/errors"
	publicMiddleware "github.com/rocketr/rocketr-ipn/pkg/middleware"
	"github.com/rocketr/rocketr-ipn/pkg/response"
	"github.com/rocketr/rocketr-ipn/pkg/status"
)

// IPNHashHeader carries the HMAC-SHA-512 hex digest of the canonical
// request body.
const IPNHashHeader = "Ipn-Hash"

type HTTPHandler struct {
	Validate            *validator.Validate
	NotificationUseCase NotificationUseCase
	IPNSecret           string
}

func InitHTTPHandler(router *mux.Router, validate *validator.Validate, notificationUseCase NotificationUseCase, ipnSecret string) {
	handler := &HTTPHandler{
		Validate:            validate,
		NotificationUseCase: notificationUseCase,
		IPNSecret:           ipnSecret,
	}

	router.HandleFunc("/rocketr-ipn/v1/ipn", publicMiddleware.SetRouteChain(handler.OnIPN)).Methods(http.MethodPost)
}

func (handler HTTPHandler) validate(ctx context.Context, payload interface{}) error {
	err := handler.Validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	errorFields := err.(validator.ValidationErrors)

	errMessages := make([]string, len(errorFields))

	for k, errorField := range errorFields {
		errMessages[k] = fmt.Sprintf("invalid '%s' with value '%v'", errorField.Field(), errorField.Value())
	}

	errorMessage := strings.Join(errMessages, ", ")

	return fmt.Errorf(errorMessage)
}

func (handler HTTPHandler) OnIPN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(r)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	signature := r.Header.Get(IPNHashHeader)
	if len(body) == 0 || signature == "" {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: "received invalid ipn",
		})

		return
	}

	canonical, err := CanonicalizeBody(body)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	if !VerifySignature(canonical, signature, handler.IPNSecret) {
		response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
			Status:  status.UNAUTHORIZED,
			Message: "ipn hash does not match",
		})

		return
	}

	pn, err := ParseIPN(body, canonical)
	if err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	if err := handler.validate(ctx, pn); err != nil {
		response.JSON(w, http.StatusBadRequest, response.RESTEnvelope{
			Status:  status.BAD_REQUEST,
			Message: err.Error(),
		})

		return
	}

	// A verified notification runs to completion even if the caller
	// disconnects; Rocketr would otherwise redeliver a half-applied
	// attempt.
	if _, err := handler.NotificationUseCase.Reconcile(context.WithoutCancel(ctx), pn); err != nil {
		ae := errors.Destruct(err)
		response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
			Status:  ae.Status,
			Message: ae.Message,
		})

		return
	}

	response.Text(w, http.StatusOK, "Success")
}

func decodeBody(r *http.Request) (map[string]interface{}, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()

		var body map[string]interface{}
		if err := decoder.Decode(&body); err != nil {
			if err == io.EOF {
				return map[string]interface{}{}, nil
			}
			return nil, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
		}

		return body, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}

	body := make(map[string]interface{}, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			body[key] = values[0]
		}
	}

	return body, nil
}
