// internal/server/handlers.go

package server

import (
	"github.com/gofiber/fiber/v2"

	"marketplace-facets/internal/facets/chips"
	"marketplace-facets/internal/facets/store"
	"marketplace-facets/internal/models"
)

// facetsResponse is the state payload returned by every filter endpoint.
type facetsResponse struct {
	Attributes      []models.Attribute     `json:"attributes"`
	TotalResults    int                    `json:"totalResults"`
	AppliedFilters  []models.AppliedFilter `json:"appliedFilters"`
	Chips           []chips.Chip           `json:"chips"`
	IsLoading       bool                   `json:"isLoading"`
	IsLoadingCounts bool                   `json:"isLoadingCounts"`
	Error           string                 `json:"error,omitempty"`
}

type filterInput struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Label      string `json:"label"`
	ValueLabel string `json:"valueLabel"`
}

type putFiltersRequest struct {
	Filters []filterInput `json:"filters"`
}

// GetFacets loads (or returns the cached) facet state for a category.
func (h *Handler) GetFacets(c *fiber.Ctx) error {
	st := h.registry.Get(c.Params("slug"), c.Query("listingType"))
	st.FetchFilterData(c.UserContext())
	return respondState(c, st.State())
}

// PutFilters replaces the applied filter set and recomputes counts.
func (h *Handler) PutFilters(c *fiber.Ctx) error {
	var req putFiltersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	st := h.registry.Get(c.Params("slug"), c.Query("listingType"))
	if st.Snapshot() == nil {
		st.FetchFilterData(c.UserContext())
	}

	attrs := st.State().Attributes
	applied := make([]models.AppliedFilter, 0, len(req.Filters))
	for _, in := range req.Filters {
		if in.Key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "filter key is required")
		}
		val, err := models.ParseFilterValue(attributeType(attrs, in.Key), in.Value)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		applied = append(applied, models.AppliedFilter{
			Key:        in.Key,
			Label:      in.Label,
			Raw:        in.Value,
			ValueLabel: in.ValueLabel,
			Value:      val,
		})
	}

	st.SetAppliedFilters(applied)
	st.UpdateFiltersWithCascading(c.UserContext())
	return respondState(c, st.State())
}

// DeleteFilter removes one filter, along with any filters that depend on it.
func (h *Handler) DeleteFilter(c *fiber.Ctx) error {
	st := h.registry.Get(c.Params("slug"), c.Query("listingType"))
	st.RemoveFilter(c.Params("key"))
	st.UpdateFiltersWithCascading(c.UserContext())
	return respondState(c, st.State())
}

// ClearFilters removes every applied filter and restores baseline counts.
func (h *Handler) ClearFilters(c *fiber.Ctx) error {
	st := h.registry.Get(c.Params("slug"), c.Query("listingType"))
	st.ClearFilters()
	st.UpdateFiltersWithCascading(c.UserContext())
	return respondState(c, st.State())
}

func respondState(c *fiber.Ctx, state store.State) error {
	return respond(c, facetsResponse{
		Attributes:      state.Attributes,
		TotalResults:    state.TotalResults,
		AppliedFilters:  state.AppliedFilters,
		Chips:           chips.Derive(state.AppliedFilters, state.Attributes),
		IsLoading:       state.IsLoading,
		IsLoadingCounts: state.IsLoadingCounts,
		Error:           state.Err,
	})
}

func attributeType(attrs []models.Attribute, key string) models.AttributeType {
	for i := range attrs {
		if attrs[i].Key == key {
			return attrs[i].Type
		}
	}
	return models.AttributeTypeText
}
