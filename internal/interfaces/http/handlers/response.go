// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/access"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/interfaces/http/middleware"
)

// errorBody builds the JSON body for a failed request
func errorBody(err error) gin.H {
	body := gin.H{"error": apperr.PublicMessage(err)}

	var stockErr *apperr.StockError
	if errors.As(err, &stockErr) {
		body["details"] = gin.H{
			"bag_id":    stockErr.BagID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		}
	}
	return body
}

// respondError writes err with its mapped status. Server errors are logged
// with the request id; their details never reach the client.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("Request failed")
	}
	c.JSON(status, errorBody(err))
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.New("handlers.parse_id", apperr.ErrInvalidInput, "invalid %s", name)
	}
	return uint(id), nil
}

// principals turns the authenticated identity into an access principal
type principals struct {
	customers *customer.Service
}

// resolve returns the caller's principal, creating the customer profile on
// first use. Anonymous callers get the zero principal.
func (p principals) resolve(c *gin.Context) (access.Principal, error) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		return access.Principal{}, nil
	}

	profile, err := p.customers.EnsureProfile(c.Request.Context(), identity)
	if err != nil {
		return access.Principal{}, err
	}
	return access.Principal{CustomerID: profile.ID, IsStaff: identity.IsStaff}, nil
}

// authorize resolves the caller and checks action against res
func (p principals) authorize(c *gin.Context, action access.Action, res access.Resource) (access.Principal, error) {
	principal, err := p.resolve(c)
	if err != nil {
		return access.Principal{}, err
	}
	if err := access.Authorize(principal, action, res); err != nil {
		return access.Principal{}, err
	}
	return principal, nil
}
