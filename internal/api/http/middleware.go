package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/observability"
	"github.com/spec-kit/freight-console/internal/session"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(translateError(err))
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("request_id", observability.RequestID(c)),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// translateError maps back-office and session failures onto domain errors.
func translateError(err error) error {
	var authErr *apiclient.AuthError
	var businessErr *apiclient.BusinessError
	var transportErr *apiclient.TransportError

	switch {
	case errors.As(err, &authErr):
		return apperrors.NewSessionExpired("session expired", authErr.Redirect, err)
	case errors.As(err, &businessErr):
		switch businessErr.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.NewUnauthorized(businessErr.Error())
		case http.StatusForbidden:
			return apperrors.NewForbidden(businessErr.Error())
		case http.StatusNotFound:
			return apperrors.NewNotFound("record", nil)
		case http.StatusConflict:
			return apperrors.NewConflict(businessErr.Error(), nil)
		default:
			return apperrors.NewBusinessFailure(businessErr.Message, err)
		}
	case errors.As(err, &transportErr):
		return apperrors.NewBadGateway(err)
	case errors.Is(err, session.ErrNotAuthenticated):
		return apperrors.NewUnauthorized("not signed in")
	case errors.Is(err, session.ErrLoginFailed):
		return apperrors.NewUnauthorized("login failed")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewDomainError("TIMEOUT", "request timed out", http.StatusGatewayTimeout, nil)
	}
	return err
}
