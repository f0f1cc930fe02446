package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servicedesk/admin-api/internal/api/metrics"
	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/ports"
)

// CRUDHandler is the generic handler set behind every registered resource.
// The router instantiates one per registry entry; all behavior differences
// between resources live in the descriptor, not in handler code.
type CRUDHandler struct {
	resource domain.Resource
	service  ports.ResourceService
}

func NewCRUDHandler(resource domain.Resource, service ports.ResourceService) *CRUDHandler {
	return &CRUDHandler{resource: resource, service: service}
}

// Create handles POST /{name}.
func (h *CRUDHandler) Create(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}

	entity := h.resource.NewEntity()
	if err := c.Bind(entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.service.Create(c.Request().Context(), h.resource, sess, entity)
	h.observe(domain.ActionCreate, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Get handles GET /{name}/{id}.
func (h *CRUDHandler) Get(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	doc, err := h.service.Get(c.Request().Context(), h.resource, sess, id)
	h.observe(domain.ActionRetrieve, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Update handles PUT and PATCH /{name}/{id} as a merge-patch.
func (h *CRUDHandler) Update(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	doc, err := h.service.Update(c.Request().Context(), h.resource, sess, id, bson.M(patch))
	h.observe(domain.ActionUpdate, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /{name}/{id}.
func (h *CRUDHandler) Delete(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), h.resource, sess, id)
	h.observe(domain.ActionDelete, err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// List handles GET /{name} with the react-admin filter/sort/range convention.
// A filter naming a single id returns the lone document without pagination
// headers; everything else returns an array plus Content-Range.
func (h *CRUDHandler) List(c echo.Context) error {
	sess, err := sessionFrom(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(
		c.Request().Context(),
		h.resource,
		sess,
		c.QueryParam("filter"),
		c.QueryParam("sort"),
		c.QueryParam("range"),
	)
	h.observe(domain.ActionList, err)
	if err != nil {
		return err
	}

	if result.Single != nil {
		return c.JSON(http.StatusOK, result.Single)
	}

	contentRange := fmt.Sprintf("%s %d-%d/%d", result.Resource, result.Start, result.End, result.Total)
	header := c.Response().Header()
	header.Set("Content-Range", contentRange)
	header.Set("X-Content-Range", contentRange)
	header.Set("Access-Control-Expose-Headers", "Content-Range")

	return c.JSON(http.StatusOK, result.Items)
}

func (h *CRUDHandler) observe(action domain.Action, err error) {
	metrics.CRUDRequestsTotal.WithLabelValues(h.resource.Name, string(action), metrics.Outcome(err)).Inc()
}

// pathID parses the identifier path parameter into a store reference.
func pathID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, domain.ErrUnprocessable
	}
	return id, nil
}
