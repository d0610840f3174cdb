package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Catalog is the listing storage behind the car and recent-view endpoints.
type Catalog interface {
	SearchCars(q domain.CarSearch) domain.CarPage
	Car(carID int) (*domain.CarDetail, error)
	RecordView(userID, carID int) error
	RecentViews(userID, limit int) []domain.CarListing
}

type CarHandler struct {
	catalog Catalog
}

func NewCarHandler(catalog Catalog) *CarHandler {
	return &CarHandler{catalog: catalog}
}

type recordViewRequest struct {
	CarID int `json:"car_id" validate:"required,gt=0"`
}

// Search lists active cars matching the query filters.
//
// @Summary      Search cars
// @Tags         cars
// @Produce      json
// @Param        q         query     string  false  "Brand, model or submodel text"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Param        minPrice  query     int     false  "Minimum price"
// @Param        maxPrice  query     int     false  "Maximum price"
// @Param        province  query     string  false  "Province"
// @Success      200       {object}  envelope
// @Router       /api/cars/search [get]
func (h *CarHandler) Search(c echo.Context) error {
	q := domain.CarSearch{
		Query:    c.QueryParam("q"),
		Province: c.QueryParam("province"),
	}
	for name, dst := range map[string]*int{
		"page":     &q.Page,
		"limit":    &q.Limit,
		"minPrice": &q.MinPrice,
		"maxPrice": &q.MaxPrice,
		"minYear":  &q.MinYear,
		"maxYear":  &q.MaxYear,
	} {
		if v := c.QueryParam(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
			}
			*dst = n
		}
	}
	return respond(c, http.StatusOK, h.catalog.SearchCars(q))
}

// Get returns one listing with its images.
//
// @Summary      Car detail
// @Tags         cars
// @Produce      json
// @Param        id   path      int  true  "Car ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  ErrorResponse
// @Router       /api/cars/{id} [get]
func (h *CarHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid car ID")
	}
	car, err := h.catalog.Car(id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, car)
}

// RecentViews returns the signed-in user's viewed cars, newest first.
//
// @Summary      Recently viewed cars
// @Tags         recent-views
// @Produce      json
// @Param        limit  query     int  false  "Maximum items (default 20)"
// @Success      200    {object}  envelope
// @Failure      401    {object}  ErrorResponse
// @Router       /api/recent-views [get]
func (h *CarHandler) RecentViews(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return respond(c, http.StatusOK, h.catalog.RecentViews(claims.SubjectID(), limit))
}

// RecordView adds a car to the signed-in user's history.
//
// @Summary      Record a car view
// @Tags         recent-views
// @Accept       json
// @Produce      json
// @Param        body  body      recordViewRequest  true  "Viewed car"
// @Success      201   {object}  envelope
// @Failure      404   {object}  ErrorResponse
// @Router       /api/recent-views [post]
func (h *CarHandler) RecordView(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req recordViewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.catalog.RecordView(claims.SubjectID(), req.CarID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusCreated, "View recorded")
}
